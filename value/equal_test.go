package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualPrimitives(t *testing.T) {
	assert.True(t, Equal(1, int64(1)))
	assert.True(t, Equal(nil, nil))
	assert.True(t, Equal("a", "a"))
	assert.False(t, Equal(1, 2))
	assert.False(t, Equal(int64(1), 1.0), "int and float stay distinct")
	assert.False(t, Equal("1", 1))
}

func TestEqualTrees(t *testing.T) {
	a := map[any]any{
		"list": []any{int64(1), int64(2), map[any]any{"x": nil}},
		"set":  NewSet(1, 2),
		int64(3): "int key",
	}
	b := map[any]any{
		"list": []any{1, 2, map[any]any{"x": nil}},
		"set":  NewSet(2, 1),
		3:      "int key",
	}
	assert.True(t, Equal(a, b))

	b["extra"] = true
	assert.False(t, Equal(a, b))
}

func TestEqualMismatchedShapes(t *testing.T) {
	assert.False(t, Equal([]any{1}, map[any]any{int64(0): int64(1)}))
	assert.False(t, Equal(NewSet(1), []any{int64(1)}))
	assert.False(t, Equal([]any{1, 2}, []any{1}))
}

func TestSetContains(t *testing.T) {
	s := NewSet(1, "a")
	assert.True(t, s.Contains(int64(1)))
	assert.True(t, s.Contains(1), "lookups normalize")
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains(2))
	assert.False(t, s.Contains([]any{1}), "uncomparable lookups are simply absent")
}
