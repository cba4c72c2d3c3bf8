package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdRegistersCommandGroups(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{
		"auth", "repos", "schemas", "docs", "collections",
		"users", "groups", "perms", "blobs", "search", "api", "config",
		"version",
	}
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "missing command %s", name)
	}
}

func TestRootCmdHelpDoesNotNeedConfig(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "chino manages repositories")
}

func TestRootCmdGlobalFlags(t *testing.T) {
	cmd := NewRootCmd()
	for _, flag := range []string{"json", "quiet", "verbose", "no-retry", "base-url", "timeout", "chunk-size", "format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag --%s", flag)
	}
}

func TestRootCmdSilencesCobraNoise(t *testing.T) {
	cmd := NewRootCmd()
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}
