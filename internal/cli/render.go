package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mutlog/mutlog/store"
	"github.com/mutlog/mutlog/value"
)

// snapshotText renders a plain tree as the canonical single-line snapshot
// literal, by writing it through a throwaway in-memory store. This is the
// exact text a compacted log would carry.
func snapshotText(tree map[any]any) (string, error) {
	sink := &store.BufferSink{}
	st, err := store.New(sink, tree)
	if err != nil {
		return "", err
	}
	if err := st.Close(); err != nil {
		return "", err
	}
	line := strings.TrimSuffix(sink.String(), "\n")
	return strings.TrimPrefix(line, store.RootAccessor+" = "), nil
}

// renderPretty writes a multi-line, indented literal rendering of a plain
// tree, one slot per line, entries in canonical order. Built for diffing:
// a one-slot change touches one line.
func renderPretty(tree map[any]any) string {
	var b strings.Builder
	writePretty(&b, tree, "")
	b.WriteByte('\n')
	return b.String()
}

func writePretty(b *strings.Builder, v any, indent string) {
	inner := indent + "    "
	switch t := v.(type) {
	case map[any]any:
		if len(t) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for _, k := range sortedKeys(t) {
			b.WriteString(inner)
			b.WriteString(reprOrPlaceholder(k))
			b.WriteString(": ")
			writePretty(b, t[k], inner)
			b.WriteString(",\n")
		}
		b.WriteString(indent + "}")
	case []any:
		if len(t) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[\n")
		for _, e := range t {
			b.WriteString(inner)
			writePretty(b, e, inner)
			b.WriteString(",\n")
		}
		b.WriteString(indent + "]")
	case value.Set:
		if len(t) == 0 {
			b.WriteString("set()")
			return
		}
		elems := make([]string, 0, len(t))
		for e := range t {
			elems = append(elems, reprOrPlaceholder(e))
		}
		sort.Strings(elems)
		b.WriteString("{" + strings.Join(elems, ", ") + "}")
	default:
		b.WriteString(reprOrPlaceholder(t))
	}
}

func reprOrPlaceholder(v any) string {
	r, err := value.Repr(v)
	if err != nil {
		return fmt.Sprintf("<%T>", v)
	}
	return r
}

func sortedKeys(m map[any]any) []any {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return reprOrPlaceholder(keys[i]) < reprOrPlaceholder(keys[j])
	})
	return keys
}

// renderable converts a plain tree into the shape encoding/json and yaml
// marshal cleanly: string keys throughout, sets as sorted lists.
func renderable(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for _, k := range sortedKeys(t) {
			key, ok := k.(string)
			if !ok {
				key = reprOrPlaceholder(k)
			}
			out[key] = renderable(t[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = renderable(e)
		}
		return out
	case value.Set:
		return setElems(t)
	default:
		return v
	}
}

// setElems returns the set's elements sorted by their literal text.
func setElems(s value.Set) []any {
	type entry struct {
		repr string
		elem any
	}
	entries := make([]entry, 0, len(s))
	for e := range s {
		entries = append(entries, entry{repr: reprOrPlaceholder(e), elem: e})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].repr < entries[j].repr })
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.elem
	}
	return out
}
