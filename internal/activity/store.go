package activity

import (
	"context"
	"errors"

	"github.com/guregu/dynamo/v2"

	"github.com/sopatech/wavedesk/internal/infra"
)

// Activity log: two-row pattern (no GSI), append-only.
// - Submission index: PK = ACTIVITY#SUB#<submission_id>, SK = ENTRY#<at>#<entry_id> — per-submission history, ordered by time.
// - Actor index: PK = ACTIVITY#USER#<actor_id>, SK = ENTRY#<at>#<entry_id> — "what did this user do" listing.

const (
	submissionPKPrefix = "ACTIVITY#SUB#"
	actorPKPrefix      = "ACTIVITY#USER#"
	entrySKPrefix      = "ENTRY#"
)

func submissionPK(submissionID string) string {
	return submissionPKPrefix + submissionID
}

func actorPK(actorID string) string {
	return actorPKPrefix + actorID
}

func entrySK(at, entryID string) string {
	return entrySKPrefix + at + "#" + entryID
}

type entryRow struct {
	PK           string `dynamo:"pk"`
	SK           string `dynamo:"sk"`
	EntryID      string `dynamo:"entry_id"`
	SubmissionID string `dynamo:"submission_id"`
	ActorID      string `dynamo:"actor_id"`
	ActorName    string `dynamo:"actor_name,omitempty"`
	Action       string `dynamo:"action"`
	Note         string `dynamo:"note,omitempty"`
	At           string `dynamo:"at"`
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

// Put writes the entry to both indexes in one transaction.
func (s *Store) Put(ctx context.Context, e entryRow) error {
	subRow := e
	subRow.PK = submissionPK(e.SubmissionID)
	subRow.SK = entrySK(e.At, e.EntryID)
	actRow := e
	actRow.PK = actorPK(e.ActorID)
	actRow.SK = entrySK(e.At, e.EntryID)
	return s.db.WriteTx().
		Put(s.tbl().Put(subRow)).
		Put(s.tbl().Put(actRow)).
		Run(ctx)
}

// ListBySubmission returns entries for the submission, newest first.
func (s *Store) ListBySubmission(ctx context.Context, submissionID string, limit int) ([]entryRow, error) {
	if submissionID == "" {
		return nil, errors.New("submission_id required")
	}
	if limit <= 0 {
		limit = 100
	}
	var out []entryRow
	iter := s.tbl().Get("pk", submissionPK(submissionID)).Range("sk", dynamo.BeginsWith, entrySKPrefix).Order(dynamo.Descending).Limit(limit).Iter()
	var row entryRow
	for iter.Next(ctx, &row) {
		out = append(out, row)
	}
	return out, iter.Err()
}

// ListByActor returns entries recorded by the actor, newest first.
func (s *Store) ListByActor(ctx context.Context, actorID string, limit int) ([]entryRow, error) {
	if actorID == "" {
		return nil, errors.New("actor_id required")
	}
	if limit <= 0 {
		limit = 100
	}
	var out []entryRow
	iter := s.tbl().Get("pk", actorPK(actorID)).Range("sk", dynamo.BeginsWith, entrySKPrefix).Order(dynamo.Descending).Limit(limit).Iter()
	var row entryRow
	for iter.Next(ctx, &row) {
		out = append(out, row)
	}
	return out, iter.Err()
}
