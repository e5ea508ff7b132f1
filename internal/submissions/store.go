package submissions

import (
	"context"
	"errors"

	"github.com/guregu/dynamo/v2"

	"github.com/sopatech/wavedesk/internal/infra"
)

// Submissions domain: three-row pattern (no GSI).
// - Main row: PK = SUBMISSIONS#<id>, SK = SUBMISSION — full submission data.
// - Owner index: PK = SUBMISSIONS#ARTIST#<owner_key>, SK = SUBMISSION#<created_at>#<id> — for an artist's own list, ordered by time.
// - Desk index: PK = SUBMISSIONS#ALL, SK = SUBMISSION#<created_at>#<id> — for the manager's full list. Single partition; a label desk
//   sees hundreds of submissions a month, not millions, so this stays well under partition limits.

const (
	submissionPKPrefix = "SUBMISSIONS#"
	submissionSK       = "SUBMISSION"
	ownerPKPrefix      = "SUBMISSIONS#ARTIST#"
	deskPK             = "SUBMISSIONS#ALL"
	refSKPrefix        = "SUBMISSION#"
)

func submissionPK(id string) string {
	return submissionPKPrefix + id
}

func ownerPK(ownerKey string) string {
	return ownerPKPrefix + ownerKey
}

func refSK(createdAt, id string) string {
	return refSKPrefix + createdAt + "#" + id
}

type submissionRow struct {
	PK             string `dynamo:"pk"`
	SK             string `dynamo:"sk"`
	ID             string `dynamo:"id"`
	Title          string `dynamo:"title"`
	Genre          string `dynamo:"genre,omitempty"`
	TrackURL       string `dynamo:"track_url,omitempty"`
	ArtistID       string `dynamo:"artist_id,omitempty"`
	UserID         string `dynamo:"user_id,omitempty"`
	ArtistName     string `dynamo:"artist_name,omitempty"`
	Status         string `dynamo:"status"`
	SubmissionDate string `dynamo:"submission_date,omitempty"`
	ReleaseDate    string `dynamo:"release_date,omitempty"`
	ReviewNote     string `dynamo:"review_note,omitempty"`
	ReviewedBy     string `dynamo:"reviewed_by,omitempty"`
	ReviewedAt     string `dynamo:"reviewed_at,omitempty"`
	CreatedAt      string `dynamo:"created_at"`
	UpdatedAt      string `dynamo:"updated_at,omitempty"`
}

// refRow is the minimal row in the owner and desk indexes.
type refRow struct {
	PK           string `dynamo:"pk"`
	SK           string `dynamo:"sk"`
	SubmissionID string `dynamo:"submission_id"`
	CreatedAt    string `dynamo:"created_at"`
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

// rowOwnerKey resolves the index partition key for a submission: artist_id,
// falling back to user_id for legacy records.
func rowOwnerKey(r *submissionRow) string {
	if r.ArtistID != "" {
		return r.ArtistID
	}
	return r.UserID
}

// Create writes the main row plus owner and desk index rows in one transaction.
// Fails if the submission ID already exists (conditional put on main row).
func (s *Store) Create(ctx context.Context, row submissionRow) error {
	row.PK = submissionPK(row.ID)
	row.SK = submissionSK
	ownerRef := refRow{
		PK:           ownerPK(rowOwnerKey(&row)),
		SK:           refSK(row.CreatedAt, row.ID),
		SubmissionID: row.ID,
		CreatedAt:    row.CreatedAt,
	}
	deskRef := refRow{
		PK:           deskPK,
		SK:           refSK(row.CreatedAt, row.ID),
		SubmissionID: row.ID,
		CreatedAt:    row.CreatedAt,
	}
	return s.db.WriteTx().
		Put(s.tbl().Put(row).If("attribute_not_exists(pk)")).
		Put(s.tbl().Put(ownerRef)).
		Put(s.tbl().Put(deskRef)).
		Run(ctx)
}

// Get returns the submission for the given ID, or nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*submissionRow, error) {
	var row submissionRow
	err := s.tbl().Get("pk", submissionPK(id)).Range("sk", dynamo.Equal, submissionSK).One(ctx, &row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListAll returns refs (submission_id, created_at) from the desk index, newest first.
// limit <= 0 means no limit.
func (s *Store) ListAll(ctx context.Context, limit int) ([]refRow, error) {
	return s.listRefs(ctx, deskPK, limit)
}

// ListByOwner returns refs for the owner's submissions, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerKey string, limit int) ([]refRow, error) {
	if ownerKey == "" {
		return nil, nil
	}
	return s.listRefs(ctx, ownerPK(ownerKey), limit)
}

func (s *Store) listRefs(ctx context.Context, pk string, limit int) ([]refRow, error) {
	q := s.tbl().Get("pk", pk).Range("sk", dynamo.BeginsWith, refSKPrefix).Order(dynamo.Descending)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []refRow
	iter := q.Iter()
	var row refRow
	for iter.Next(ctx, &row) {
		out = append(out, row)
	}
	return out, iter.Err()
}

// BatchGet returns full submission rows for the given IDs, in the same order as ids.
// Uses DynamoDB BatchGetItem (one or more round-trips of up to 100 items each).
func (s *Store) BatchGet(ctx context.Context, ids []string) ([]*submissionRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]dynamo.Keyed, len(ids))
	for i, id := range ids {
		keys[i] = dynamo.Keys{submissionPK(id), submissionSK}
	}
	var rows []submissionRow
	if err := s.tbl().Batch("pk", "sk").Get(keys...).All(ctx, &rows); err != nil {
		return nil, err
	}
	// Preserve the order of ids (BatchGet returns items in undefined order)
	orderMap := make(map[string]*submissionRow, len(rows))
	for i := range rows {
		orderMap[rows[i].ID] = &rows[i]
	}
	ordered := make([]*submissionRow, 0, len(ids))
	for _, id := range ids {
		if r := orderMap[id]; r != nil {
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}

// UpdateFields updates the editable fields on the main row.
func (s *Store) UpdateFields(ctx context.Context, id, title, genre, trackURL, releaseDate, updatedAt string) error {
	return s.tbl().Update("pk", submissionPK(id)).Range("sk", submissionSK).
		Set("title", title).
		Set("genre", genre).
		Set("track_url", trackURL).
		Set("release_date", releaseDate).
		Set("updated_at", updatedAt).
		Run(ctx)
}

// UpdateStatus updates the review state on the main row.
func (s *Store) UpdateStatus(ctx context.Context, id, status, reviewedBy, reviewNote, reviewedAt, updatedAt string) error {
	return s.tbl().Update("pk", submissionPK(id)).Range("sk", submissionSK).
		Set("status", status).
		Set("reviewed_by", reviewedBy).
		Set("review_note", reviewNote).
		Set("reviewed_at", reviewedAt).
		Set("updated_at", updatedAt).
		Run(ctx)
}

// Delete removes the main row and both index rows. Requires fetching the main
// row to recover created_at and the owner key.
func (s *Store) Delete(ctx context.Context, id string) error {
	main, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if main == nil {
		return nil
	}
	return s.db.WriteTx().
		Delete(s.tbl().Delete("pk", submissionPK(id)).Range("sk", submissionSK)).
		Delete(s.tbl().Delete("pk", ownerPK(rowOwnerKey(main))).Range("sk", refSK(main.CreatedAt, id))).
		Delete(s.tbl().Delete("pk", deskPK).Range("sk", refSK(main.CreatedAt, id))).
		Run(ctx)
}
