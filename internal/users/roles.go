package users

// Role is a user's portal-wide role. Roles are assigned at signup and never
// change through the submission flow; authorization checks only read them.
type Role string

// The two roles the portal discriminates on. The review UI carries extra
// localized display labels, but authorization only ever matches these values;
// any other string matches no branch and is treated as an unknown role.
const (
	RoleLabelManager Role = "Label Manager" // unrestricted read/write/approve/delete over all submissions
	RoleArtist       Role = "Artist"        // own-submission visibility, conditional edit/resubmit
)

// ValidRole returns true if r is a recognized portal role.
func ValidRole(r Role) bool {
	return r == RoleLabelManager || r == RoleArtist
}
