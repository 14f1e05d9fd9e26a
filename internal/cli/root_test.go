package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mutlog", cmd.Use)
	assert.Contains(t, cmd.Long, "append-only")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"show", "verify", "compact", "diff"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	noColorFlag := cmd.PersistentFlags().Lookup("no-color")
	require.NotNil(t, noColorFlag)
	assert.Equal(t, "false", noColorFlag.DefValue)
}

func TestShowCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	showCmd, _, err := cmd.Find([]string{"show"})
	require.NoError(t, err)

	prettyFlag := showCmd.Flags().Lookup("pretty")
	require.NotNil(t, prettyFlag)
	assert.Equal(t, "false", prettyFlag.DefValue)
}

func TestInvalidFormatRejected(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "show", "whatever.mutlog"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

// writeLog writes a log file into a temp dir and returns its path.
func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.mutlog")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
