package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"

	"github.com/sopatech/wavedesk/internal/infra"
)

// Auth domain: sessions and refresh tokens live under AUTH#...
// Session: PK = AUTH#SESSION#<id>, SK = SESSION
// Refresh: PK = AUTH#REFRESH#<id>, SK = REFRESH
// User session index (no GSI): PK = AUTH#USER#<user_id>, SK = SESSION#<session_id> or REFRESH#<refresh_id> — for RevokeAllSessionsForUser

const (
	sessionPrefix     = "AUTH#SESSION#"
	refreshPrefix     = "AUTH#REFRESH#"
	userIndexPKPrefix = "AUTH#USER#"
	userIndexSession  = "SESSION#"
	userIndexRefresh  = "REFRESH#"
	sessionSK         = "SESSION"
	refreshSK         = "REFRESH"
)

type sessionRow struct {
	PK        string `dynamo:"pk"`
	SK        string `dynamo:"sk"`
	UserID    string `dynamo:"user_id"`
	RefreshID string `dynamo:"refresh_id"`
	ExpiresAt string `dynamo:"expires_at"`
}

type refreshRow struct {
	PK        string `dynamo:"pk"`
	SK        string `dynamo:"sk"`
	UserID    string `dynamo:"user_id"`
	SessionID string `dynamo:"session_id"`
	ExpiresAt string `dynamo:"expires_at"`
}

// userSessionIndexRow is a minimal row for the user→session index (PK = AUTH#USER#<userID>, SK = SESSION#<id> or REFRESH#<id>).
type userSessionIndexRow struct {
	PK string `dynamo:"pk"`
	SK string `dynamo:"sk"`
}

type Store struct {
	db        *infra.Dynamo
	tableName string
}

func NewStore(db *infra.Dynamo, tableName string) *Store {
	return &Store{db: db, tableName: tableName}
}

func (s *Store) tbl() dynamo.Table {
	return s.db.Table(s.tableName)
}

// CreateSession creates a session and linked refresh token, returns sessionID, refreshID, expiresAt.
func (s *Store) CreateSession(ctx context.Context, userID string, sessionTTL, refreshTTL time.Duration) (sessionID, refreshID string, sessionExpiresAt time.Time, err error) {
	sessionID = uuid.New().String()
	refreshID = uuid.New().String()
	sessionExpiresAt = time.Now().UTC().Add(sessionTTL)
	refreshExpiresAt := time.Now().UTC().Add(refreshTTL)

	sessRow := sessionRow{
		PK:        sessionPrefix + sessionID,
		SK:        sessionSK,
		UserID:    userID,
		RefreshID: refreshID,
		ExpiresAt: sessionExpiresAt.Format(time.RFC3339),
	}
	refRow := refreshRow{
		PK:        refreshPrefix + refreshID,
		SK:        refreshSK,
		UserID:    userID,
		SessionID: sessionID,
		ExpiresAt: refreshExpiresAt.Format(time.RFC3339),
	}
	userPK := userIndexPKPrefix + userID
	idxSess := userSessionIndexRow{PK: userPK, SK: userIndexSession + sessionID}
	idxRef := userSessionIndexRow{PK: userPK, SK: userIndexRefresh + refreshID}

	err = s.db.WriteTx().
		Put(s.tbl().Put(sessRow).If("attribute_not_exists(pk)")).
		Put(s.tbl().Put(refRow).If("attribute_not_exists(pk)")).
		Put(s.tbl().Put(idxSess)).
		Put(s.tbl().Put(idxRef)).
		Run(ctx)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return sessionID, refreshID, sessionExpiresAt, nil
}

// GetRefresh returns userID and sessionID for a refresh token, or empty if not found/expired.
func (s *Store) GetRefresh(ctx context.Context, refreshID string) (userID, sessionID string, err error) {
	var row refreshRow
	err = s.tbl().Get("pk", refreshPrefix+refreshID).Range("sk", dynamo.Equal, refreshSK).One(ctx, &row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return "", "", nil
		}
		return "", "", err
	}
	expiresAt, parseErr := time.Parse(time.RFC3339, row.ExpiresAt)
	if parseErr != nil || time.Now().UTC().After(expiresAt) {
		return "", "", nil
	}
	return row.UserID, row.SessionID, nil
}

// getSession returns the session row, or nil if not found.
func (s *Store) getSession(ctx context.Context, sessionID string) (*sessionRow, error) {
	var row sessionRow
	err := s.tbl().Get("pk", sessionPrefix+sessionID).Range("sk", dynamo.Equal, sessionSK).One(ctx, &row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// RevokeRefresh deletes the refresh token, its linked session, and their user index rows.
func (s *Store) RevokeRefresh(ctx context.Context, refreshID string) error {
	var row refreshRow
	err := s.tbl().Get("pk", refreshPrefix+refreshID).Range("sk", dynamo.Equal, refreshSK).One(ctx, &row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil
		}
		return err
	}
	userPK := userIndexPKPrefix + row.UserID
	tx := s.db.WriteTx().
		Delete(s.tbl().Delete("pk", refreshPrefix+refreshID).Range("sk", refreshSK)).
		Delete(s.tbl().Delete("pk", userPK).Range("sk", userIndexRefresh+refreshID))
	if row.SessionID != "" {
		tx = tx.
			Delete(s.tbl().Delete("pk", sessionPrefix+row.SessionID).Range("sk", sessionSK)).
			Delete(s.tbl().Delete("pk", userPK).Range("sk", userIndexSession+row.SessionID))
	}
	return tx.Run(ctx)
}

// RevokeSession deletes the session, its linked refresh token, and their user index rows.
func (s *Store) RevokeSession(ctx context.Context, sessionID string) error {
	row, err := s.getSession(ctx, sessionID)
	if err != nil || row == nil {
		return err
	}
	userPK := userIndexPKPrefix + row.UserID
	tx := s.db.WriteTx().
		Delete(s.tbl().Delete("pk", sessionPrefix+sessionID).Range("sk", sessionSK)).
		Delete(s.tbl().Delete("pk", userPK).Range("sk", userIndexSession+sessionID))
	if row.RefreshID != "" {
		tx = tx.
			Delete(s.tbl().Delete("pk", refreshPrefix+row.RefreshID).Range("sk", refreshSK)).
			Delete(s.tbl().Delete("pk", userPK).Range("sk", userIndexRefresh+row.RefreshID))
	}
	return tx.Run(ctx)
}

// RevokeAllSessionsForUser walks the user session index and deletes every session and refresh row.
func (s *Store) RevokeAllSessionsForUser(ctx context.Context, userID string) error {
	userPK := userIndexPKPrefix + userID
	iter := s.tbl().Get("pk", userPK).Iter()
	var idx userSessionIndexRow
	for iter.Next(ctx, &idx) {
		switch {
		case len(idx.SK) > len(userIndexSession) && idx.SK[:len(userIndexSession)] == userIndexSession:
			sessionID := idx.SK[len(userIndexSession):]
			if err := s.db.WriteTx().
				Delete(s.tbl().Delete("pk", sessionPrefix+sessionID).Range("sk", sessionSK)).
				Delete(s.tbl().Delete("pk", userPK).Range("sk", idx.SK)).
				Run(ctx); err != nil {
				return err
			}
		case len(idx.SK) > len(userIndexRefresh) && idx.SK[:len(userIndexRefresh)] == userIndexRefresh:
			refreshID := idx.SK[len(userIndexRefresh):]
			if err := s.db.WriteTx().
				Delete(s.tbl().Delete("pk", refreshPrefix+refreshID).Range("sk", refreshSK)).
				Delete(s.tbl().Delete("pk", userPK).Range("sk", idx.SK)).
				Run(ctx); err != nil {
				return err
			}
		}
	}
	return iter.Err()
}
