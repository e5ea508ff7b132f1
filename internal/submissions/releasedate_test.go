package submissions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateReleaseDate_WithinWindow(t *testing.T) {
	sub := Submission{SubmissionDate: "2024-01-01", Status: StatusPending}
	require.True(t, ValidateReleaseDate(artist, sub, "2024-01-02").Allowed)
}

func TestValidateReleaseDate_BoundsInclusive(t *testing.T) {
	sub := Submission{SubmissionDate: "2024-01-01", Status: StatusPending}
	// both ends of the two-day window are valid
	require.True(t, ValidateReleaseDate(artist, sub, "2024-01-01").Allowed)
	require.True(t, ValidateReleaseDate(artist, sub, "2024-01-03").Allowed)
}

func TestValidateReleaseDate_OutsideWindowDenied(t *testing.T) {
	sub := Submission{SubmissionDate: "2024-01-01", Status: StatusPending}

	res := ValidateReleaseDate(artist, sub, "2024-01-05")
	require.False(t, res.Allowed)
	require.Equal(t, "Release date must be between 2024-01-01 and 2024-01-03", res.Reason)

	res = ValidateReleaseDate(artist, sub, "2023-12-31")
	require.False(t, res.Allowed)
	require.Equal(t, "Release date must be between 2024-01-01 and 2024-01-03", res.Reason)
}

func TestValidateReleaseDate_PublishedBypassesWindow(t *testing.T) {
	sub := Submission{SubmissionDate: "2024-01-01", Status: StatusPublished}
	require.True(t, ValidateReleaseDate(manager, sub, "1999-06-15").Allowed)
}

func TestValidateReleaseDate_UnparsableDenied(t *testing.T) {
	sub := Submission{SubmissionDate: "2024-01-01", Status: StatusPending}
	for _, bad := range []string{"", "next tuesday", "01/02/2024"} {
		res := ValidateReleaseDate(artist, sub, bad)
		require.False(t, res.Allowed, "input %q", bad)
		require.Equal(t, "Release date must be a valid date (YYYY-MM-DD)", res.Reason)
	}
}

func TestValidateReleaseDate_FallsBackToCreatedAt(t *testing.T) {
	sub := Submission{CreatedAt: "2024-03-10T09:30:00Z", Status: StatusPending}
	require.True(t, ValidateReleaseDate(artist, sub, "2024-03-11").Allowed)

	res := ValidateReleaseDate(artist, sub, "2024-03-20")
	require.False(t, res.Allowed)
	require.Contains(t, res.Reason, "2024-03-10")
	require.Contains(t, res.Reason, "2024-03-12")
}

func TestValidateReleaseDate_FallsBackToNow(t *testing.T) {
	sub := Submission{Status: StatusPending} // no dates at all
	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02")
	require.True(t, ValidateReleaseDate(artist, sub, tomorrow).Allowed)

	lastYear := time.Now().UTC().AddDate(-1, 0, 0).Format("2006-01-02")
	require.False(t, ValidateReleaseDate(artist, sub, lastYear).Allowed)
}

func TestValidateReleaseDate_AcceptsRFC3339Timestamps(t *testing.T) {
	sub := Submission{SubmissionDate: "2024-01-01T12:00:00Z", Status: StatusPending}
	require.True(t, ValidateReleaseDate(artist, sub, "2024-01-02T12:00:00Z").Allowed)
	require.False(t, ValidateReleaseDate(artist, sub, "2024-01-04T12:00:00Z").Allowed)
}
