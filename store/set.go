package store

import (
	"sort"

	"github.com/mutlog/mutlog/value"
)

// Set is a live mutable set node. Elements stay flat (primitives or opaque
// handler values), so a Set never has tracked children to relink.
//
// Add and Discard always emit a statement, even when they leave the set
// unchanged. The log records intent; deduplication happens at the state
// level only.
type Set struct {
	node
	elems map[any]struct{}
}

func newSet(s *Store) *Set {
	return &Set{node: node{store: s}, elems: make(map[any]struct{})}
}

func (st *Set) link(accessor string) { st.accessor = accessor }
func (st *Set) unlink()              { st.accessor = "" }

func (st *Set) plain() any { return st.Plain() }

// Plain exports the set in plain form.
func (st *Set) Plain() value.Set {
	out := make(value.Set, len(st.elems))
	for e := range st.elems {
		out[e] = struct{}{}
	}
	return out
}

// Len returns the number of elements.
func (st *Set) Len() int { return len(st.elems) }

// Contains reports whether x is an element.
func (st *Set) Contains(x any) bool {
	if n, ok := value.Normalize(x); ok {
		x = n
	}
	if !value.Comparable(x) {
		return false
	}
	_, ok := st.elems[x]
	return ok
}

// Elems returns the elements in canonical (literal text) order.
func (st *Set) Elems() []any {
	type entry struct {
		repr string
		elem any
	}
	entries := make([]entry, 0, len(st.elems))
	for e := range st.elems {
		r, err := st.store.repr(e)
		if err != nil {
			continue
		}
		entries = append(entries, entry{repr: r, elem: e})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].repr < entries[j].repr })
	elems := make([]any, len(entries))
	for i, e := range entries {
		elems[i] = e.elem
	}
	return elems
}

// Add inserts x and emits an add statement whether or not x was already
// present.
func (st *Set) Add(x any) error {
	if err := st.checkLinked(); err != nil {
		return err
	}
	w, err := st.store.wrapElem(x)
	if err != nil {
		return err
	}
	r, err := st.store.repr(w)
	if err != nil {
		return err
	}
	st.elems[w] = struct{}{}
	return st.store.append(st.accessor + ".add(" + r + ")")
}

// Discard removes x if present and emits a discard statement regardless.
func (st *Set) Discard(x any) error {
	if err := st.checkLinked(); err != nil {
		return err
	}
	w, err := st.store.wrapElem(x)
	if err != nil {
		return err
	}
	r, err := st.store.repr(w)
	if err != nil {
		return err
	}
	delete(st.elems, w)
	return st.store.append(st.accessor + ".discard(" + r + ")")
}
