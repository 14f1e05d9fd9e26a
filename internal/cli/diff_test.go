package cli

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffEqualStates(t *testing.T) {
	// Different histories, same state.
	a := writeLog(t, "store = {}\nstore['a']=1\nstore['a']=2\n")
	b := writeLog(t, "store = {'a': 2}\n")

	buf := &bytes.Buffer{}
	cmd := NewDiffCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{a, b})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "states are equal")
}

func TestDiffDifferingStates(t *testing.T) {
	color.NoColor = true

	a := writeLog(t, "store = {'a': 1, 'b': 2}\n")
	b := writeLog(t, "store = {'a': 1, 'b': 3}\n")

	buf := &bytes.Buffer{}
	cmd := NewDiffCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{a, b})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out := buf.String()
	assert.Contains(t, out, " 'a': 1,\n")
	assert.Contains(t, out, "-    'b': 2,\n")
	assert.Contains(t, out, "+    'b': 3,\n")
}

func TestDiffMissingLog(t *testing.T) {
	a := writeLog(t, "store = {}\n")

	buf := &bytes.Buffer{}
	cmd := NewDiffCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{a, "/nonexistent/state.mutlog"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
