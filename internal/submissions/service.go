package submissions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sopatech/wavedesk/internal/activity"
	"github.com/sopatech/wavedesk/internal/search"
	"github.com/sopatech/wavedesk/internal/users"
)

var ErrSubmissionNotFound = errors.New("submission not found")

const reasonCreateArtistOnly = "Only Artists can create submissions"

// DeniedError wraps a business denial from the permission checks so handlers
// can map it to HTTP 403 with the exact reason string.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

func deniedErr(res Result) error {
	return &DeniedError{Reason: res.Reason}
}

// ActivityLog records and lists submission lifecycle events.
type ActivityLog interface {
	Record(ctx context.Context, submissionID, actorID, actorName string, action activity.Action, note string) error
	ListForSubmission(ctx context.Context, submissionID string, limit int) ([]activity.Entry, error)
	ListForActor(ctx context.Context, actorID string, limit int) ([]activity.Entry, error)
}

// Index keeps the review queue search in sync with the store.
type Index interface {
	IndexSubmission(ctx context.Context, doc search.SubmissionDoc) error
	DeleteSubmission(ctx context.Context, submissionID string) error
	Search(ctx context.Context, q search.Query) ([]search.Hit, error)
}

// DecisionRecorder counts approve/reject decisions (implemented by metrics.DecisionRecorder).
type DecisionRecorder interface {
	RecordDecision(decision string)
}

// ActiveArtistRecorder records monthly artist activity (implemented by metrics.ActiveArtistRecorder).
type ActiveArtistRecorder interface {
	RecordActiveArtist(ctx context.Context, artistID string) error
}

type CreateInput struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	TrackURL    string `json:"track_url"`
	ReleaseDate string `json:"release_date"`
}

type UpdateInput struct {
	Title       *string `json:"title"`
	Genre       *string `json:"genre"`
	TrackURL    *string `json:"track_url"`
	ReleaseDate *string `json:"release_date"`
}

type Service interface {
	Create(ctx context.Context, actor users.User, in CreateInput) (*Submission, error)
	Get(ctx context.Context, actor users.User, id string) (*Submission, error)
	List(ctx context.Context, actor users.User) ([]Submission, error)
	Update(ctx context.Context, actor users.User, id string, in UpdateInput) (*Submission, error)
	Delete(ctx context.Context, actor users.User, id string) error
	Approve(ctx context.Context, actor users.User, id, note string) (*Submission, error)
	Reject(ctx context.Context, actor users.User, id, note string) (*Submission, error)
	Resubmit(ctx context.Context, actor users.User, id string) (*Submission, error)
	Publish(ctx context.Context, actor users.User, id string) (*Submission, error)
	Cancel(ctx context.Context, actor users.User, id string) (*Submission, error)
	Statistics(ctx context.Context, actor users.User) (*Stats, error)
	Search(ctx context.Context, actor users.User, text, status string, size, from int) ([]Submission, error)
	Activity(ctx context.Context, actor users.User, id string, limit int) ([]activity.Entry, error)
	MyActivity(ctx context.Context, actor users.User, limit int) ([]activity.Entry, error)
}

type service struct {
	store     *Store
	log       ActivityLog
	index     Index
	decisions DecisionRecorder
	active    ActiveArtistRecorder
}

func NewService(store *Store, log ActivityLog, index Index, decisions DecisionRecorder, active ActiveArtistRecorder) Service {
	return &service{store: store, log: log, index: index, decisions: decisions, active: active}
}

func (s *service) Create(ctx context.Context, actor users.User, in CreateInput) (*Submission, error) {
	if actor.Role != users.RoleArtist {
		return nil, &DeniedError{Reason: reasonCreateArtistOnly}
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("title required")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	sub := Submission{
		ID:             uuid.New().String(),
		Title:          title,
		Genre:          strings.TrimSpace(in.Genre),
		TrackURL:       strings.TrimSpace(in.TrackURL),
		ArtistID:       actor.ID,
		UserID:         actor.ID,
		ArtistName:     actor.FullName,
		Status:         StatusPending,
		SubmissionDate: now,
		CreatedAt:      now,
	}
	if in.ReleaseDate != "" {
		if res := ValidateReleaseDate(actor, sub, in.ReleaseDate); !res.Allowed {
			return nil, deniedErr(res)
		}
		sub.ReleaseDate = in.ReleaseDate
	}

	if err := s.store.Create(ctx, subToRow(sub)); err != nil {
		return nil, err
	}
	if err := s.log.Record(ctx, sub.ID, actor.ID, actor.FullName, activity.ActionSubmitted, ""); err != nil {
		return nil, err
	}
	if err := s.index.IndexSubmission(ctx, subToDoc(sub)); err != nil {
		return nil, err
	}
	if err := s.active.RecordActiveArtist(ctx, actor.ID); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *service) Get(ctx context.Context, actor users.User, id string) (*Submission, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res := CanView(actor, *sub); !res.Allowed {
		return nil, deniedErr(res)
	}
	return sub, nil
}

func (s *service) List(ctx context.Context, actor users.User) ([]Submission, error) {
	var refs []refRow
	var err error
	switch actor.Role {
	case users.RoleLabelManager:
		refs, err = s.store.ListAll(ctx, 0)
	case users.RoleArtist:
		refs, err = s.store.ListByOwner(ctx, actor.ID, 0)
	default:
		return []Submission{}, nil // fail closed: unknown role sees nothing
	}
	if err != nil {
		return nil, err
	}
	subs, err := s.resolveRefs(ctx, refs)
	if err != nil {
		return nil, err
	}
	// The owner partition is keyed on a single ownership field; run the full
	// dual-key filter as the authoritative check.
	return FilterForUser(actor, subs), nil
}

func (s *service) Update(ctx context.Context, actor users.User, id string, in UpdateInput) (*Submission, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res := CanEdit(actor, *sub); !res.Allowed {
		return nil, deniedErr(res)
	}

	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			sub.Title = t
		}
	}
	if in.Genre != nil {
		sub.Genre = strings.TrimSpace(*in.Genre)
	}
	if in.TrackURL != nil {
		sub.TrackURL = strings.TrimSpace(*in.TrackURL)
	}
	if in.ReleaseDate != nil {
		if res := ValidateReleaseDate(actor, *sub, *in.ReleaseDate); !res.Allowed {
			return nil, deniedErr(res)
		}
		sub.ReleaseDate = *in.ReleaseDate
	}
	sub.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.store.UpdateFields(ctx, id, sub.Title, sub.Genre, sub.TrackURL, sub.ReleaseDate, sub.UpdatedAt); err != nil {
		return nil, err
	}
	if err := s.log.Record(ctx, id, actor.ID, actor.FullName, activity.ActionUpdated, ""); err != nil {
		return nil, err
	}
	if err := s.index.IndexSubmission(ctx, subToDoc(*sub)); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) Delete(ctx context.Context, actor users.User, id string) error {
	sub, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if res := CanDelete(actor); !res.Allowed {
		return deniedErr(res)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.index.DeleteSubmission(ctx, id); err != nil {
		return err
	}
	// The activity rows stay: the log is the record of what happened to the
	// submission, including its deletion.
	return s.log.Record(ctx, sub.ID, actor.ID, actor.FullName, activity.ActionDeleted, "")
}

func (s *service) Approve(ctx context.Context, actor users.User, id, note string) (*Submission, error) {
	return s.decide(ctx, actor, id, StatusApproved, activity.ActionApproved, "approve", note)
}

func (s *service) Reject(ctx context.Context, actor users.User, id, note string) (*Submission, error) {
	return s.decide(ctx, actor, id, StatusRejected, activity.ActionRejected, "reject", note)
}

func (s *service) decide(ctx context.Context, actor users.User, id string, status Status, action activity.Action, decision, note string) (*Submission, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res := CanApproveRejectSubmission(actor); !res.Allowed {
		return nil, deniedErr(res)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	sub.Status = status
	sub.ReviewedBy = actor.ID
	sub.ReviewNote = strings.TrimSpace(note)
	sub.ReviewedAt = now
	sub.UpdatedAt = now
	if err := s.store.UpdateStatus(ctx, id, string(status), sub.ReviewedBy, sub.ReviewNote, sub.ReviewedAt, now); err != nil {
		return nil, err
	}
	s.decisions.RecordDecision(decision)
	if err := s.log.Record(ctx, id, actor.ID, actor.FullName, action, sub.ReviewNote); err != nil {
		return nil, err
	}
	if err := s.index.IndexSubmission(ctx, subToDoc(*sub)); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) Resubmit(ctx context.Context, actor users.User, id string) (*Submission, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res := CanResubmitAfterRejection(actor, *sub); !res.Allowed {
		return nil, deniedErr(res)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	sub.Status = StatusPending
	sub.ReviewedBy = ""
	sub.ReviewNote = ""
	sub.ReviewedAt = ""
	sub.UpdatedAt = now
	if err := s.store.UpdateStatus(ctx, id, string(StatusPending), "", "", "", now); err != nil {
		return nil, err
	}
	if err := s.log.Record(ctx, id, actor.ID, actor.FullName, activity.ActionResubmitted, ""); err != nil {
		return nil, err
	}
	if err := s.index.IndexSubmission(ctx, subToDoc(*sub)); err != nil {
		return nil, err
	}
	if err := s.active.RecordActiveArtist(ctx, actor.ID); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) Publish(ctx context.Context, actor users.User, id string) (*Submission, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res := CanPublishSubmission(actor); !res.Allowed {
		return nil, deniedErr(res)
	}
	if sub.Status != StatusApproved {
		return nil, &DeniedError{Reason: "Only approved submissions can be published"}
	}
	return s.transition(ctx, actor, sub, StatusPublished, activity.ActionPublished)
}

func (s *service) Cancel(ctx context.Context, actor users.User, id string) (*Submission, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case users.RoleLabelManager:
	case users.RoleArtist:
		if !IsOwner(actor, *sub) {
			return nil, &DeniedError{Reason: "Artists can only cancel their own submissions"}
		}
	default:
		return nil, &DeniedError{Reason: ReasonUnauthorizedRole}
	}
	if sub.Status == StatusPublished {
		return nil, &DeniedError{Reason: "Published submissions cannot be cancelled"}
	}
	return s.transition(ctx, actor, sub, StatusCancelled, activity.ActionCancelled)
}

// transition moves sub to status, preserving the existing review fields.
func (s *service) transition(ctx context.Context, actor users.User, sub *Submission, status Status, action activity.Action) (*Submission, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	sub.Status = status
	sub.UpdatedAt = now
	if err := s.store.UpdateStatus(ctx, sub.ID, string(status), sub.ReviewedBy, sub.ReviewNote, sub.ReviewedAt, now); err != nil {
		return nil, err
	}
	if err := s.log.Record(ctx, sub.ID, actor.ID, actor.FullName, action, ""); err != nil {
		return nil, err
	}
	if err := s.index.IndexSubmission(ctx, subToDoc(*sub)); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) Statistics(ctx context.Context, actor users.User) (*Stats, error) {
	refs, err := s.store.ListAll(ctx, 0)
	if err != nil {
		return nil, err
	}
	subs, err := s.resolveRefs(ctx, refs)
	if err != nil {
		return nil, err
	}
	stats := GenerateStatistics(actor, subs)
	return &stats, nil
}

func (s *service) Search(ctx context.Context, actor users.User, text, status string, size, from int) ([]Submission, error) {
	q := search.Query{Text: text, Status: status, Size: size, From: from}
	switch actor.Role {
	case users.RoleLabelManager:
		// full index
	case users.RoleArtist:
		q.ArtistID = actor.ID
	default:
		return nil, &DeniedError{Reason: ReasonUnauthorizedRole}
	}

	hits, err := s.index.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.SubmissionID)
	}
	rows, err := s.store.BatchGet(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Submission, 0, len(rows))
	for _, r := range rows {
		sub := rowToSubmission(r)
		if CanView(actor, sub).Allowed {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *service) Activity(ctx context.Context, actor users.User, id string, limit int) ([]activity.Entry, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res := CanView(actor, *sub); !res.Allowed {
		return nil, deniedErr(res)
	}
	return s.log.ListForSubmission(ctx, id, limit)
}

// MyActivity lists the caller's own recorded actions, newest first. No
// permission gate beyond authentication: everyone may see what they did.
func (s *service) MyActivity(ctx context.Context, actor users.User, limit int) ([]activity.Entry, error) {
	return s.log.ListForActor(ctx, actor.ID, limit)
}

func (s *service) load(ctx context.Context, id string) (*Submission, error) {
	if id == "" {
		return nil, ErrSubmissionNotFound
	}
	row, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrSubmissionNotFound
	}
	sub := rowToSubmission(row)
	return &sub, nil
}

func (s *service) resolveRefs(ctx context.Context, refs []refRow) ([]Submission, error) {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.SubmissionID)
	}
	rows, err := s.store.BatchGet(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Submission, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToSubmission(r))
	}
	return out, nil
}

func subToRow(sub Submission) submissionRow {
	return submissionRow{
		ID:             sub.ID,
		Title:          sub.Title,
		Genre:          sub.Genre,
		TrackURL:       sub.TrackURL,
		ArtistID:       sub.ArtistID,
		UserID:         sub.UserID,
		ArtistName:     sub.ArtistName,
		Status:         string(sub.Status),
		SubmissionDate: sub.SubmissionDate,
		ReleaseDate:    sub.ReleaseDate,
		ReviewNote:     sub.ReviewNote,
		ReviewedBy:     sub.ReviewedBy,
		ReviewedAt:     sub.ReviewedAt,
		CreatedAt:      sub.CreatedAt,
		UpdatedAt:      sub.UpdatedAt,
	}
}

func rowToSubmission(r *submissionRow) Submission {
	return Submission{
		ID:             r.ID,
		Title:          r.Title,
		Genre:          r.Genre,
		TrackURL:       r.TrackURL,
		ArtistID:       r.ArtistID,
		UserID:         r.UserID,
		ArtistName:     r.ArtistName,
		Status:         Status(r.Status),
		SubmissionDate: r.SubmissionDate,
		ReleaseDate:    r.ReleaseDate,
		ReviewNote:     r.ReviewNote,
		ReviewedBy:     r.ReviewedBy,
		ReviewedAt:     r.ReviewedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func subToDoc(sub Submission) search.SubmissionDoc {
	return search.SubmissionDoc{
		SubmissionID: sub.ID,
		Title:        sub.Title,
		ArtistID:     sub.ArtistID,
		ArtistName:   sub.ArtistName,
		Status:       string(sub.Status),
		CreatedAt:    sub.CreatedAt,
	}
}
