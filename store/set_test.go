package store_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutlog/mutlog/internal/testutil"
	"github.com/mutlog/mutlog/store"
	"github.com/mutlog/mutlog/value"
)

func TestSetAddDiscard(t *testing.T) {
	st, sink := testutil.MemStore(t, nil)

	require.NoError(t, st.Set("set", value.NewSet(1, 2, 3)))
	s := testutil.MustSet(t, st, "set")

	require.NoError(t, s.Add(5))
	assert.True(t, s.Contains(5))

	require.NoError(t, s.Discard(5))
	assert.False(t, s.Contains(5))
	roundTrip(t, st, sink, nil)
}

func TestSetAlwaysLogs(t *testing.T) {
	st, sink := testutil.MemStore(t, nil)

	require.NoError(t, st.Set("set", value.NewSet(1)))
	s := testutil.MustSet(t, st, "set")

	// Adding a present element and discarding an absent one both log;
	// deduplication happens at the state level only.
	require.NoError(t, s.Add(1))
	require.NoError(t, s.Discard(99))

	assert.Equal(t, 1, strings.Count(sink.String(), "store['set'].add(1)"))
	assert.Equal(t, 1, strings.Count(sink.String(), "store['set'].discard(99)"))
	assert.Equal(t, 1, s.Len())
	roundTrip(t, st, sink, nil)
}

func TestSetRejectsContainerElements(t *testing.T) {
	st, _ := testutil.MemStore(t, nil)

	require.NoError(t, st.Set("set", value.NewSet()))
	s := testutil.MustSet(t, st, "set")

	assert.ErrorIs(t, s.Add([]any{1}), store.ErrInvalidOperation)
}

func TestEmptySetSnapshot(t *testing.T) {
	st, sink := testutil.MemStore(t, map[string]any{"s": value.NewSet()})
	assert.Equal(t, "store = {'s': set()}\n", sink.String())
	roundTrip(t, st, sink, nil)
}

func TestSetDetached(t *testing.T) {
	st, _ := testutil.MemStore(t, nil)

	require.NoError(t, st.Set("set", value.NewSet(1)))
	s := testutil.MustSet(t, st, "set")
	require.NoError(t, st.Delete("set"))

	assert.ErrorIs(t, s.Add(2), store.ErrDetachedMutation)
	assert.ErrorIs(t, s.Discard(1), store.ErrDetachedMutation)
}

func TestSetElemsSorted(t *testing.T) {
	st, _ := testutil.MemStore(t, nil)

	require.NoError(t, st.Set("set", value.NewSet("b", "a", "c")))
	s := testutil.MustSet(t, st, "set")
	assert.Equal(t, []any{"a", "b", "c"}, s.Elems())
}
