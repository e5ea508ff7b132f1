package users

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidRole(t *testing.T) {
	require.True(t, ValidRole(RoleLabelManager))
	require.True(t, ValidRole(RoleArtist))

	require.False(t, ValidRole(Role("")))
	require.False(t, ValidRole(Role("Admin")))
	require.False(t, ValidRole(Role("label manager")), "role matching is case sensitive")
}
