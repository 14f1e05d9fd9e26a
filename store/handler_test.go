package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutlog/mutlog/internal/testutil"
	"github.com/mutlog/mutlog/replay"
	"github.com/mutlog/mutlog/store"
	"github.com/mutlog/mutlog/value"
)

type color int

const (
	red color = iota + 1
	green
)

func colorHandler() *store.EnumHandler {
	return store.NewEnumHandler("Color", map[string]any{
		"Red":   red,
		"Green": green,
	})
}

func TestEnumHandlerRoundTrip(t *testing.T) {
	h := colorHandler()
	st, sink := testutil.MemStore(t, nil, h)

	require.NoError(t, st.Set("fg", red))
	require.NoError(t, st.Set(green, "used as key"))

	assert.Contains(t, sink.String(), "store['fg']=Color.Red")
	assert.Contains(t, sink.String(), "store[Color.Green]='used as key'")

	syms := replay.NewSymbols()
	syms.ExposeEnum(h)
	loaded, err := replay.LoadString(sink.String(), syms)
	require.NoError(t, err)
	assert.True(t, value.Equal(st.Plain(), loaded))
	assert.Equal(t, "used as key", loaded[green])
}

func TestEnumHandlerUnexposedSymbolFails(t *testing.T) {
	st, sink := testutil.MemStore(t, nil, colorHandler())
	require.NoError(t, st.Set("fg", red))

	_, err := replay.LoadString(sink.String(), nil)
	assert.ErrorIs(t, err, replay.ErrInvalidLog)
}

type level int

func (l level) String() string {
	switch l {
	case 1:
		return "low"
	case 2:
		return "high"
	}
	return "unknown"
}

func TestStringerHandlerIsLossy(t *testing.T) {
	st, sink := testutil.MemStore(t, nil, store.StringerHandler{})

	require.NoError(t, st.Set("level", level(2)))

	// The concrete type is gone: the stored value is its string form.
	v, ok := st.Get("level")
	require.True(t, ok)
	assert.Equal(t, "high", v)

	loaded, err := replay.LoadString(sink.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, "high", loaded["level"])
}

func TestHandlerOrderFirstMatchWins(t *testing.T) {
	// level implements fmt.Stringer, so whichever handler is first claims it.
	st, _ := testutil.MemStore(t, nil,
		store.NewEnumHandler("Level", map[string]any{"Low": level(1)}),
		store.StringerHandler{},
	)

	require.NoError(t, st.Set("a", level(1)))
	v, _ := st.Get("a")
	assert.Equal(t, level(1), v, "enum handler claimed it and kept it opaque")

	require.NoError(t, st.Set("b", level(2)))
	v, _ = st.Get("b")
	assert.Equal(t, "high", v, "stringer handler got the unregistered member")
}

func TestFallbackStringHandler(t *testing.T) {
	type widget struct{ id int }

	st, sink := testutil.MemStore(t, nil, store.FallbackStringHandler{})
	require.NoError(t, st.Set("w", widget{id: 7}))

	v, _ := st.Get("w")
	assert.Equal(t, "{7}", v)
	roundTrip(t, st, sink, nil)
}

func TestNoHandlerFails(t *testing.T) {
	type widget struct{ id int }

	st, _ := testutil.MemStore(t, nil)
	assert.ErrorIs(t, st.Set("w", widget{id: 7}), store.ErrUnsupportedType)
}
