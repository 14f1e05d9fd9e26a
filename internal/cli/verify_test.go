package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyOK(t *testing.T) {
	path := writeLog(t, "store = {}\nstore['a']=1\nstore['l']=[1, 2]\ndel store['l'][0]\n")

	buf := &bytes.Buffer{}
	cmd := NewVerifyCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "OK "+path)
}

func TestVerifyVerbosePrintsSnapshot(t *testing.T) {
	path := writeLog(t, "store = {}\nstore['a']=1\n")

	buf := &bytes.Buffer{}
	cmd := NewVerifyCommand(&RootOptions{Format: "text", Verbose: true})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "snapshot: {'a': 1}")
}

func TestVerifyJSON(t *testing.T) {
	path := writeLog(t, "store = {'a': 1}\n")

	buf := &bytes.Buffer{}
	cmd := NewVerifyCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var result VerifyResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, path, result.Log)
	assert.True(t, result.Statements)
	assert.True(t, result.RoundTrip)
	assert.True(t, result.Deterministic)
}

func TestVerifyCorruptLog(t *testing.T) {
	path := writeLog(t, "store = {}\nstore['a']=nonsense\n")

	buf := &bytes.Buffer{}
	cmd := NewVerifyCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerifyMissingLog(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewVerifyCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/state.mutlog"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
