package mutlog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutlog/mutlog"
	"github.com/mutlog/mutlog/internal/testutil"
	"github.com/mutlog/mutlog/value"
)

func logPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.mutlog")
}

func TestCreateAndReload(t *testing.T) {
	path := logPath(t)

	st, err := mutlog.Create(path)
	require.NoError(t, err)
	require.NoError(t, st.Set("runs", []any{}))
	runs := testutil.MustList(t, st, "runs")
	require.NoError(t, runs.Append(map[any]any{"epoch": 0, "loss": 0.25}))
	require.NoError(t, st.Close())

	tree, err := mutlog.LoadFile(path, nil)
	require.NoError(t, err)
	want := map[any]any{
		"runs": []any{map[any]any{"epoch": int64(0), "loss": 0.25}},
	}
	assert.True(t, value.Equal(want, tree), "got %#v", tree)
}

func TestOpenResumesExistingLog(t *testing.T) {
	path := logPath(t)

	st, err := mutlog.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Set("a", 1))
	require.NoError(t, st.Close())

	st, err = mutlog.Open(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustGet(t, st, "a"))
	require.NoError(t, st.Set("b", 2))
	require.NoError(t, st.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// The resumed session appends a fresh snapshot after the prior history.
	assert.Equal(t, 2, strings.Count(string(raw), "store = "), "log:\n%s", raw)

	tree, err := mutlog.LoadFile(path, nil)
	require.NoError(t, err)
	want := map[any]any{"a": int64(1), "b": int64(2)}
	assert.True(t, value.Equal(want, tree), "got %#v", tree)
}

func TestOpenIgnoresInitialDataOnResume(t *testing.T) {
	path := logPath(t)

	st, err := mutlog.Open(path, mutlog.WithInitialData(map[any]any{"a": 1}))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = mutlog.Open(path, mutlog.WithInitialData(map[any]any{"a": 999}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustGet(t, st, "a"))
	require.NoError(t, st.Close())
}

func TestOpenEmptyFileStartsFresh(t *testing.T) {
	path := logPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	st, err := mutlog.Open(path, mutlog.WithInitialData(map[any]any{"a": 1}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustGet(t, st, "a"))
	require.NoError(t, st.Close())
}

func TestOpenRejectsCorruptLog(t *testing.T) {
	path := logPath(t)
	require.NoError(t, os.WriteFile(path, []byte("store = {}\nstore['a']="), 0o644))

	_, err := mutlog.Open(path)
	assert.ErrorIs(t, err, mutlog.ErrInvalidLog)
}

func TestCreateTruncatesCorruptLog(t *testing.T) {
	path := logPath(t)
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	st, err := mutlog.Create(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "store = {}\n", string(raw))
}

func TestLogName(t *testing.T) {
	name := mutlog.LogName("/tmp/logs", "experiment")
	assert.True(t, strings.HasPrefix(name, filepath.Join("/tmp/logs", "experiment_")), name)
	assert.True(t, strings.HasSuffix(name, ".mutlog"), name)
}

func mustGet(t *testing.T, st interface{ Get(any) (any, bool) }, key any) any {
	t.Helper()
	v, ok := st.Get(key)
	require.True(t, ok, "key %v not present", key)
	return v
}
