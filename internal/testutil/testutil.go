// Package testutil provides shared helpers for exercising stores in tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mutlog/mutlog/store"
)

// MemStore builds a store over an in-memory sink and returns both, so tests
// can mutate through the store and assert on the exact log text it emitted.
func MemStore(t *testing.T, initial any, handlers ...store.TypeHandler) (*store.Store, *store.BufferSink) {
	t.Helper()
	sink := &store.BufferSink{}
	st, err := store.New(sink, initial, handlers...)
	require.NoError(t, err)
	return st, sink
}

// MustList fetches the list node stored under key on the root dict.
func MustList(t *testing.T, st *store.Store, key any) *store.List {
	t.Helper()
	v, ok := st.Get(key)
	require.True(t, ok, "key %v not present", key)
	l, ok := v.(*store.List)
	require.True(t, ok, "value under %v is %T, not a list", key, v)
	return l
}

// MustDict fetches the dict node stored under key on the root dict.
func MustDict(t *testing.T, st *store.Store, key any) *store.Dict {
	t.Helper()
	v, ok := st.Get(key)
	require.True(t, ok, "key %v not present", key)
	d, ok := v.(*store.Dict)
	require.True(t, ok, "value under %v is %T, not a dict", key, v)
	return d
}

// MustSet fetches the set node stored under key on the root dict.
func MustSet(t *testing.T, st *store.Store, key any) *store.Set {
	t.Helper()
	v, ok := st.Get(key)
	require.True(t, ok, "key %v not present", key)
	s, ok := v.(*store.Set)
	require.True(t, ok, "value under %v is %T, not a set", key, v)
	return s
}
