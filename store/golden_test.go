package store_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/mutlog/mutlog/internal/testutil"
	"github.com/mutlog/mutlog/value"
)

// TestMutationLogGolden drives one scripted session through every statement
// form and pins the exact log bytes.
func TestMutationLogGolden(t *testing.T) {
	st, sink := testutil.MemStore(t, nil)

	require.NoError(t, st.Set("config", map[any]any{"rate": 1.5, "retries": 3}))
	require.NoError(t, st.Set("jobs", []any{"a", "b"}))

	jobs := testutil.MustList(t, st, "jobs")
	require.NoError(t, jobs.Append("c"))
	require.NoError(t, jobs.Insert(0, "z"))
	require.NoError(t, jobs.SetIndex(1, "A"))

	require.NoError(t, st.Set("flags", value.NewSet("x")))
	flags := testutil.MustSet(t, st, "flags")
	require.NoError(t, flags.Add("y"))
	require.NoError(t, flags.Discard("x"))

	config := testutil.MustDict(t, st, "config")
	require.NoError(t, config.Set("rate", 2.0))
	require.NoError(t, config.Delete("retries"))

	require.NoError(t, jobs.DeleteIndex(0))
	require.NoError(t, st.Set(true, nil))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "mutation_log", []byte(sink.String()))

	roundTrip(t, st, sink, nil)
}
