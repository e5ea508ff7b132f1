package submissions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sopatech/wavedesk/internal/users"
)

var (
	manager = users.User{ID: "mgr-1", FullName: "Label Boss", Role: users.RoleLabelManager}
	artist  = users.User{ID: "art-1", FullName: "Ada Tone", Role: users.RoleArtist}
	rival   = users.User{ID: "art-2", FullName: "Bo Riff", Role: users.RoleArtist}
	intern  = users.User{ID: "int-1", FullName: "New Intern", Role: users.Role("Intern")}
)

func ownedBy(userID string, status Status) Submission {
	return Submission{ID: "sub-1", Title: "Midnight Run", ArtistID: userID, UserID: userID, Status: status}
}

func TestCanView_ManagerSeesEverything(t *testing.T) {
	sub := ownedBy(artist.ID, StatusPending)
	res := CanView(manager, sub)
	require.True(t, res.Allowed)
	require.Empty(t, res.Reason)
}

func TestCanView_ArtistOwnSubmission(t *testing.T) {
	sub := ownedBy(artist.ID, StatusPending)
	require.True(t, CanView(artist, sub).Allowed)
}

func TestCanView_ArtistForeignSubmissionDenied(t *testing.T) {
	sub := ownedBy(artist.ID, StatusPending)
	res := CanView(rival, sub)
	require.False(t, res.Allowed)
	require.Equal(t, "Artists can only view their own submissions", res.Reason)
}

func TestCanView_UnknownRoleFailsClosed(t *testing.T) {
	sub := ownedBy(intern.ID, StatusPending)
	// even "owning" the record does not help an unrecognized role
	res := CanView(intern, sub)
	require.False(t, res.Allowed)
	require.Equal(t, "Unauthorized role", res.Reason)
}

func TestIsOwner_EitherOwnershipKeyCounts(t *testing.T) {
	byArtistID := Submission{ArtistID: artist.ID}
	byUserID := Submission{UserID: artist.ID} // legacy rows carry only user_id
	require.True(t, IsOwner(artist, byArtistID))
	require.True(t, IsOwner(artist, byUserID))
	require.False(t, IsOwner(rival, byArtistID))
}

func TestIsOwner_EmptyUserIDOwnsNothing(t *testing.T) {
	nobody := users.User{Role: users.RoleArtist}
	sub := Submission{ArtistID: "", UserID: ""}
	require.False(t, IsOwner(nobody, sub))
}

func TestCanEdit_ManagerEditsAnyStatus(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusApproved, StatusRejected, StatusPublished, StatusCancelled} {
		require.True(t, CanEdit(manager, ownedBy(artist.ID, status)).Allowed, "status %s", status)
	}
}

func TestCanEdit_ArtistPendingOwnAllowed(t *testing.T) {
	require.True(t, CanEdit(artist, ownedBy(artist.ID, StatusPending)).Allowed)
}

func TestCanEdit_ArtistOwnershipCheckedBeforeStatus(t *testing.T) {
	// foreign AND approved: the ownership denial wins
	res := CanEdit(rival, ownedBy(artist.ID, StatusApproved))
	require.False(t, res.Allowed)
	require.Equal(t, "Artists can only edit their own submissions", res.Reason)
}

func TestCanEdit_ArtistNonPendingDenied(t *testing.T) {
	for _, status := range []Status{StatusApproved, StatusRejected, StatusPublished, StatusCancelled} {
		res := CanEdit(artist, ownedBy(artist.ID, status))
		require.False(t, res.Allowed, "status %s", status)
		require.Equal(t, "Artists can only edit submissions that are still pending approval", res.Reason)
	}
}

func TestCanDelete_ManagerOnly(t *testing.T) {
	require.True(t, CanDelete(manager).Allowed)

	res := CanDelete(artist)
	require.False(t, res.Allowed)
	require.Equal(t, "Only Label Managers can delete submissions", res.Reason)

	require.False(t, CanDelete(intern).Allowed)
}

func TestManagerOnlyGates_DenialReasons(t *testing.T) {
	checks := []struct {
		check  func(users.User) Result
		reason string
	}{
		{CanAccessSystemSettings, "Only Label Managers can access system settings"},
		{CanUseDebugTools, "Only Label Managers can use debug tools"},
		{CanViewFullStatistics, "Only Label Managers can view full statistics"},
		{CanApproveRejectSubmission, "Only Label Managers can approve or reject submissions"},
		{CanPublishSubmission, "Only Label Managers can publish submissions"},
	}
	for _, c := range checks {
		require.True(t, c.check(manager).Allowed, c.reason)
		res := c.check(artist)
		require.False(t, res.Allowed, c.reason)
		require.Equal(t, c.reason, res.Reason)
	}
}

func TestCanResubmitAfterRejection_HappyPath(t *testing.T) {
	require.True(t, CanResubmitAfterRejection(artist, ownedBy(artist.ID, StatusRejected)).Allowed)
}

func TestCanResubmitAfterRejection_FirstFailureWins(t *testing.T) {
	rejected := ownedBy(artist.ID, StatusRejected)

	res := CanResubmitAfterRejection(manager, rejected)
	require.Equal(t, "Only Artists can resubmit submissions", res.Reason)

	res = CanResubmitAfterRejection(rival, rejected)
	require.Equal(t, "Artists can only resubmit their own submissions", res.Reason)

	res = CanResubmitAfterRejection(artist, ownedBy(artist.ID, StatusPending))
	require.Equal(t, "Only rejected submissions can be resubmitted", res.Reason)
}

func TestChecks_AreReadOnly(t *testing.T) {
	sub := ownedBy(artist.ID, StatusRejected)
	before := sub
	CanView(artist, sub)
	CanEdit(artist, sub)
	CanResubmitAfterRejection(artist, sub)
	require.Equal(t, before, sub)
}
