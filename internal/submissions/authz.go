package submissions

import (
	"github.com/sopatech/wavedesk/internal/users"
)

// Result is the outcome of every permission check: allowed, or denied with a
// human-readable reason. Denials are values, never errors — the UI surfaces
// Reason verbatim, so handlers must serialize it unchanged.
type Result struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Denial reasons. These are user-facing sentences; call sites and tests match
// them exactly, so treat each string as part of the API.
const (
	ReasonUnauthorizedRole  = "Unauthorized role"
	ReasonViewOwnOnly       = "Artists can only view their own submissions"
	ReasonEditOwnOnly       = "Artists can only edit their own submissions"
	ReasonEditPendingOnly   = "Artists can only edit submissions that are still pending approval"
	ReasonDeleteManagerOnly = "Only Label Managers can delete submissions"

	ReasonSettingsManagerOnly      = "Only Label Managers can access system settings"
	ReasonDebugToolsManagerOnly    = "Only Label Managers can use debug tools"
	ReasonFullStatsManagerOnly     = "Only Label Managers can view full statistics"
	ReasonApproveRejectManagerOnly = "Only Label Managers can approve or reject submissions"
	ReasonPublishManagerOnly       = "Only Label Managers can publish submissions"

	ReasonResubmitArtistOnly   = "Only Artists can resubmit submissions"
	ReasonResubmitOwnOnly      = "Artists can only resubmit their own submissions"
	ReasonResubmitRejectedOnly = "Only rejected submissions can be resubmitted"
)

func allow() Result {
	return Result{Allowed: true}
}

func deny(reason string) Result {
	return Result{Reason: reason}
}

// IsOwner reports whether user owns the submission. artist_id and user_id are
// equally valid ownership keys (schema evolution left both in the data); a
// match on either counts. A user with no ID owns nothing.
func IsOwner(user users.User, sub Submission) bool {
	if user.ID == "" {
		return false
	}
	return sub.ArtistID == user.ID || sub.UserID == user.ID
}

// CanView: Label Managers see everything; Artists see only their own.
func CanView(user users.User, sub Submission) Result {
	switch user.Role {
	case users.RoleLabelManager:
		return allow()
	case users.RoleArtist:
		if IsOwner(user, sub) {
			return allow()
		}
		return deny(ReasonViewOwnOnly)
	default:
		return deny(ReasonUnauthorizedRole)
	}
}

// CanEdit: Label Managers edit unconditionally. Artists edit only their own
// submissions, and only while still pending. Ownership is checked before
// status so the denial reason names the first rule that failed.
func CanEdit(user users.User, sub Submission) Result {
	switch user.Role {
	case users.RoleLabelManager:
		return allow()
	case users.RoleArtist:
		if !IsOwner(user, sub) {
			return deny(ReasonEditOwnOnly)
		}
		if sub.Status != StatusPending {
			return deny(ReasonEditPendingOnly)
		}
		return allow()
	default:
		return deny(ReasonUnauthorizedRole)
	}
}

// CanDelete: deletion is a manager-level action regardless of who owns the
// record, so this check takes no submission.
func CanDelete(user users.User) Result {
	if user.Role == users.RoleLabelManager {
		return allow()
	}
	return deny(ReasonDeleteManagerOnly)
}

// The manager-only gates below are intentionally separate functions rather
// than one generic manager check: each call site carries its own
// action-specific denial message for the audit trail and the UI.

func CanAccessSystemSettings(user users.User) Result {
	if user.Role == users.RoleLabelManager {
		return allow()
	}
	return deny(ReasonSettingsManagerOnly)
}

func CanUseDebugTools(user users.User) Result {
	if user.Role == users.RoleLabelManager {
		return allow()
	}
	return deny(ReasonDebugToolsManagerOnly)
}

func CanViewFullStatistics(user users.User) Result {
	if user.Role == users.RoleLabelManager {
		return allow()
	}
	return deny(ReasonFullStatsManagerOnly)
}

func CanApproveRejectSubmission(user users.User) Result {
	if user.Role == users.RoleLabelManager {
		return allow()
	}
	return deny(ReasonApproveRejectManagerOnly)
}

func CanPublishSubmission(user users.User) Result {
	if user.Role == users.RoleLabelManager {
		return allow()
	}
	return deny(ReasonPublishManagerOnly)
}

// CanResubmitAfterRejection: only the owning Artist may resubmit, and only a
// rejected submission. Checks role, then ownership, then status; the first
// failure wins.
func CanResubmitAfterRejection(user users.User, sub Submission) Result {
	if user.Role != users.RoleArtist {
		return deny(ReasonResubmitArtistOnly)
	}
	if !IsOwner(user, sub) {
		return deny(ReasonResubmitOwnOnly)
	}
	if sub.Status != StatusRejected {
		return deny(ReasonResubmitRejectedOnly)
	}
	return allow()
}
