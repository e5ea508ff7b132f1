package submissions

import (
	"fmt"
	"time"

	"github.com/sopatech/wavedesk/internal/users"
)

// Artists pick a release date within two days of submitting; after that the
// window closes and a manager has to re-open review. Published records are
// exempt so historical release dates can be corrected.
const releaseDateWindow = 48 * time.Hour

const ReasonReleaseDateInvalid = "Release date must be a valid date (YYYY-MM-DD)"

// ValidateReleaseDate checks whether requested (ISO date or RFC3339) is an
// acceptable release date for the submission. For published submissions any
// date is allowed. Otherwise requested must fall within
// [submissionDate, submissionDate+2d] inclusive, where submissionDate falls
// back from submission_date to created_at to the current time. An unparsable
// date is a denial, not an error.
func ValidateReleaseDate(user users.User, sub Submission, requested string) Result {
	if sub.Status == StatusPublished {
		return allow()
	}
	req, ok := parseDate(requested)
	if !ok {
		return deny(ReasonReleaseDateInvalid)
	}
	minDate := submissionDate(sub)
	maxDate := minDate.Add(releaseDateWindow)
	if req.Before(minDate) || req.After(maxDate) {
		return deny(fmt.Sprintf("Release date must be between %s and %s",
			minDate.Format("2006-01-02"), maxDate.Format("2006-01-02")))
	}
	return allow()
}

// submissionDate resolves the start of the release window: submission_date,
// else created_at, else now. The fallback order is part of the contract.
func submissionDate(sub Submission) time.Time {
	if t, ok := parseDate(sub.SubmissionDate); ok {
		return t
	}
	if t, ok := parseDate(sub.CreatedAt); ok {
		return t
	}
	return time.Now().UTC()
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
