package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// TokenPair is session token (JWT) + refresh token (opaque) returned from login/signup/refresh.
type TokenPair struct {
	SessionToken     string    `json:"session_token"`
	RefreshToken     string    `json:"refresh_token"`
	ExpiresAt        time.Time `json:"expires_at"`
	ExpiresIn        int       `json:"expires_in"`         // seconds until session expiry
	RefreshExpiresIn int       `json:"refresh_expires_in"` // seconds until refresh expiry (for cookie max-age)
}

type Service struct {
	store      *Store
	privateKey *rsa.PrivateKey
	sessionTTL time.Duration
	refreshTTL time.Duration
}

func NewService(store *Store, privateKey *rsa.PrivateKey, sessionTTL, refreshTTL time.Duration) *Service {
	return &Service{store: store, privateKey: privateKey, sessionTTL: sessionTTL, refreshTTL: refreshTTL}
}

// NewSession creates a session and refresh token for the user.
func (s *Service) NewSession(ctx context.Context, userID string) (*TokenPair, error) {
	sessionID, refreshID, expiresAt, err := s.store.CreateSession(ctx, userID, s.sessionTTL, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	sessionToken, err := s.signSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		SessionToken:     sessionToken,
		RefreshToken:     refreshID,
		ExpiresAt:        expiresAt,
		ExpiresIn:        int(s.sessionTTL.Seconds()),
		RefreshExpiresIn: int(s.refreshTTL.Seconds()),
	}, nil
}

// Refresh consumes the refresh token, revokes it, and creates a new session+refresh pair.
func (s *Service) Refresh(ctx context.Context, refreshID string) (*TokenPair, error) {
	userID, _, err := s.store.GetRefresh(ctx, refreshID)
	if err != nil || userID == "" {
		return nil, ErrInvalidRefreshToken
	}
	if err := s.store.RevokeRefresh(ctx, refreshID); err != nil {
		return nil, err
	}
	return s.NewSession(ctx, userID)
}

// Logout revokes the session (and its linked refresh token).
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.store.RevokeSession(ctx, sessionID)
}

// RevokeAllSessionsForUser revokes every session and refresh token for the user. Call before deleting the user account.
func (s *Service) RevokeAllSessionsForUser(ctx context.Context, userID string) error {
	return s.store.RevokeAllSessionsForUser(ctx, userID)
}

func (s *Service) signSession(userID, sessionID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return tok.SignedString(s.privateKey)
}
