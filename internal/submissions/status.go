package submissions

// Status is a submission's review state. Transitions are performed by the
// service layer; the permission checks only read the current value.
type Status string

// The five canonical states. Localized display labels and draft/processing
// variants exist in the review UI only; a status string outside this set
// matches no permission branch and counts in no statistics bucket.
const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
)

// Submission is a track/release entry awaiting or having undergone label review.
// ArtistID and UserID are both ownership keys: older records carry only
// user_id, newer ones artist_id. Treat a match on either as ownership.
type Submission struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Genre          string `json:"genre,omitempty"`
	TrackURL       string `json:"track_url,omitempty"`
	ArtistID       string `json:"artist_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	ArtistName     string `json:"artist_name,omitempty"`
	Status         Status `json:"status"`
	SubmissionDate string `json:"submission_date,omitempty"`
	ReleaseDate    string `json:"release_date,omitempty"`
	ReviewNote     string `json:"review_note,omitempty"`
	ReviewedBy     string `json:"reviewed_by,omitempty"`
	ReviewedAt     string `json:"reviewed_at,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}
