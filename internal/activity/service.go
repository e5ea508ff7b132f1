package activity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Action names a submission lifecycle event.
type Action string

const (
	ActionSubmitted   Action = "submitted"
	ActionUpdated     Action = "updated"
	ActionApproved    Action = "approved"
	ActionRejected    Action = "rejected"
	ActionResubmitted Action = "resubmitted"
	ActionPublished   Action = "published"
	ActionCancelled   Action = "cancelled"
	ActionDeleted     Action = "deleted"
)

// Entry is one record in a submission's activity log.
type Entry struct {
	ID           string `json:"id"`
	SubmissionID string `json:"submission_id"`
	ActorID      string `json:"actor_id"`
	ActorName    string `json:"actor_name,omitempty"`
	Action       Action `json:"action"`
	Note         string `json:"note,omitempty"`
	At           string `json:"at"`
}

type Service interface {
	Record(ctx context.Context, submissionID, actorID, actorName string, action Action, note string) error
	ListForSubmission(ctx context.Context, submissionID string, limit int) ([]Entry, error)
	ListForActor(ctx context.Context, actorID string, limit int) ([]Entry, error)
}

type service struct {
	store *Store
}

func NewService(store *Store) Service {
	return &service{store: store}
}

func (s *service) Record(ctx context.Context, submissionID, actorID, actorName string, action Action, note string) error {
	if submissionID == "" || actorID == "" || action == "" {
		return errors.New("submission_id, actor_id, and action required")
	}
	row := entryRow{
		EntryID:      uuid.New().String(),
		SubmissionID: submissionID,
		ActorID:      actorID,
		ActorName:    actorName,
		Action:       string(action),
		Note:         note,
		At:           time.Now().UTC().Format(time.RFC3339),
	}
	return s.store.Put(ctx, row)
}

func (s *service) ListForSubmission(ctx context.Context, submissionID string, limit int) ([]Entry, error) {
	rows, err := s.store.ListBySubmission(ctx, submissionID, limit)
	if err != nil {
		return nil, err
	}
	return rowsToEntries(rows), nil
}

func (s *service) ListForActor(ctx context.Context, actorID string, limit int) ([]Entry, error) {
	rows, err := s.store.ListByActor(ctx, actorID, limit)
	if err != nil {
		return nil, err
	}
	return rowsToEntries(rows), nil
}

func rowsToEntries(rows []entryRow) []Entry {
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = Entry{
			ID:           r.EntryID,
			SubmissionID: r.SubmissionID,
			ActorID:      r.ActorID,
			ActorName:    r.ActorName,
			Action:       Action(r.Action),
			Note:         r.Note,
			At:           r.At,
		}
	}
	return out
}
