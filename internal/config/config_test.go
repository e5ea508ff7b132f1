package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObfuscateStr(t *testing.T) {
	require.Equal(t, "**", ObfuscateStr(""))
	require.Equal(t, "**", ObfuscateStr("ab"))
	require.Equal(t, "s****t", ObfuscateStr("secret"))
	require.Equal(t, "supe****cret", ObfuscateStr("supersecret"))
}
