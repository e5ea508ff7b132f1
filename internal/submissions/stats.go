package submissions

import (
	"github.com/sopatech/wavedesk/internal/users"
)

// Stats is the role-scoped statistics payload. The UI branches on field
// presence: totalArtists and recentSubmissions appear only for Label
// Managers (pointers so an empty value still serializes), artistName only
// for Artists.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Published int `json:"published"`
	Cancelled int `json:"cancelled"`

	UserRole   string `json:"userRole"`
	CanViewAll bool   `json:"canViewAll"`

	TotalArtists      *int          `json:"totalArtists,omitempty"`
	RecentSubmissions *[]Submission `json:"recentSubmissions,omitempty"`
	ArtistName        string        `json:"artistName,omitempty"`
}

const recentSubmissionsLimit = 10

// FilterForUser returns the subset of subs the user is authorized to see:
// everything for a Label Manager (the same slice, unmodified), only owned
// submissions for an Artist, and nothing for any other role (fail closed,
// not an error).
func FilterForUser(user users.User, subs []Submission) []Submission {
	switch user.Role {
	case users.RoleLabelManager:
		return subs
	case users.RoleArtist:
		owned := make([]Submission, 0, len(subs))
		for _, s := range subs {
			if IsOwner(user, s) {
				owned = append(owned, s)
			}
		}
		return owned
	default:
		return []Submission{}
	}
}

// GenerateStatistics counts the user's visible submissions per status and
// attaches role-specific extras. The manager extras are deliberately
// computed over the UNFILTERED input: totalArtists must reflect every
// distinct artist in the system and recentSubmissions the first ten entries
// in their original order, independent of any per-manager filtering.
func GenerateStatistics(user users.User, subs []Submission) Stats {
	visible := FilterForUser(user, subs)

	stats := Stats{
		Total:    len(visible),
		UserRole: string(user.Role),
	}
	for _, s := range visible {
		switch s.Status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		case StatusPublished:
			stats.Published++
		case StatusCancelled:
			stats.Cancelled++
		}
	}

	switch user.Role {
	case users.RoleLabelManager:
		stats.CanViewAll = true
		n := countDistinctArtists(subs)
		stats.TotalArtists = &n
		recent := subs
		if len(recent) > recentSubmissionsLimit {
			recent = recent[:recentSubmissionsLimit]
		}
		recentCopy := make([]Submission, len(recent))
		copy(recentCopy, recent)
		stats.RecentSubmissions = &recentCopy
	case users.RoleArtist:
		stats.ArtistName = user.FullName
	}
	return stats
}

// countDistinctArtists counts distinct ownership keys (artist_id, falling
// back to user_id) across subs. Records with neither key have no owner and
// are skipped.
func countDistinctArtists(subs []Submission) int {
	seen := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		key := s.ArtistID
		if key == "" {
			key = s.UserID
		}
		if key == "" {
			continue
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}
