package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrUserNotFound = errors.New("user not found")
)

type Service interface {
	Signup(ctx context.Context, email, password, fullName string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
}

type service struct {
	store         *Store
	managerEmails map[string]bool
}

// NewService returns the users service. managerEmails lists the addresses
// that sign up as Label Manager; everyone else signs up as Artist.
func NewService(store *Store, managerEmails []string) Service {
	set := make(map[string]bool, len(managerEmails))
	for _, e := range managerEmails {
		if e = normalizeEmail(e); e != "" {
			set[e] = true
		}
	}
	return &service{store: store, managerEmails: set}
}

func (s *service) Signup(ctx context.Context, email, password, fullName string) (*User, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	if email == "" || len(password) < 8 {
		return nil, fmt.Errorf("email and password (min 8 chars) required")
	}
	if fullName == "" {
		return nil, fmt.Errorf("full name required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	role := RoleArtist
	if s.managerEmails[email] {
		role = RoleLabelManager
	}

	userID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.store.PutUser(ctx, userID, email, fullName, string(role), string(hash), now); err != nil {
		if dynamo.IsCondCheckFailed(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &User{ID: userID, Email: email, FullName: fullName, Role: role, CreatedAt: now}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidCreds
	}

	row, err := s.store.GetByEmail(ctx, email)
	if err != nil || row == nil {
		return nil, ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCreds
	}
	return rowToUser(row), nil
}

func (s *service) GetByID(ctx context.Context, userID string) (*User, error) {
	row, err := s.store.GetByID(ctx, userID)
	if err != nil || row == nil {
		return nil, ErrUserNotFound
	}
	return rowToUser(row), nil
}

func (s *service) DeleteAccount(ctx context.Context, userID string) error {
	return s.store.DeleteUser(ctx, userID)
}

func rowToUser(r *userRow) *User {
	return &User{
		ID:        r.ID,
		Email:     r.Email,
		FullName:  r.FullName,
		Role:      Role(r.Role),
		CreatedAt: r.CreatedAt,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
