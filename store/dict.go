package store

import (
	"fmt"
	"sort"

	"github.com/mutlog/mutlog/value"
)

// Dict is a live mutable mapping node. Key insertion order is irrelevant to
// log semantics; snapshots render entries in canonical (literal text) order.
type Dict struct {
	node
	data map[any]any
}

func newDict(s *Store) *Dict {
	return &Dict{node: node{store: s}, data: make(map[any]any)}
}

func (d *Dict) link(accessor string) {
	d.accessor = accessor
	for k, v := range d.data {
		kr, err := d.store.repr(k)
		if err != nil {
			// Stored keys were rendered when inserted; they cannot stop
			// rendering later.
			continue
		}
		linkValue(v, d.childAccessor(kr))
	}
}

func (d *Dict) unlink() {
	d.accessor = ""
	for _, v := range d.data {
		unlinkValue(v)
	}
}

func (d *Dict) plain() any { return d.Plain() }

// Plain exports the subtree rooted here as a plain map.
func (d *Dict) Plain() map[any]any {
	out := make(map[any]any, len(d.data))
	for k, v := range d.data {
		out[k] = plainValue(v)
	}
	return out
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.data) }

// Get returns the wrapped value stored under key. Container values come back
// as live nodes; mutate them through their own methods.
func (d *Dict) Get(key any) (any, bool) {
	k, ok := d.lookupKey(key)
	if !ok {
		return nil, false
	}
	v, ok := d.data[k]
	return v, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key any) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns all keys in canonical (literal text) order.
func (d *Dict) Keys() []any {
	type entry struct {
		repr string
		key  any
	}
	entries := make([]entry, 0, len(d.data))
	for k := range d.data {
		kr, err := d.store.repr(k)
		if err != nil {
			kr = fmt.Sprintf("%v", k)
		}
		entries = append(entries, entry{repr: kr, key: k})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].repr < entries[j].repr })
	keys := make([]any, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys
}

// Set wraps val and stores it under key, emitting one assignment statement.
// Assigning the identical value already present is a no-op and logs nothing;
// assigning an equal-but-distinct value still logs. The previous occupant
// and its whole subtree are detached.
func (d *Dict) Set(key, val any) error {
	if err := d.checkLinked(); err != nil {
		return err
	}

	k, err := d.store.wrapKey(key)
	if err != nil {
		return err
	}

	old, exists := d.data[k]
	if exists && identical(old, val) {
		return nil
	}

	w, err := d.store.wrap(val)
	if err != nil {
		return err
	}
	kr, err := d.store.repr(k)
	if err != nil {
		return err
	}
	vr, err := d.store.repr(w)
	if err != nil {
		return err
	}

	if exists {
		unlinkValue(old)
	}
	d.data[k] = w
	if err := d.store.append(d.accessor + "[" + kr + "]=" + vr); err != nil {
		return err
	}
	linkValue(w, d.childAccessor(kr))
	return nil
}

// Delete removes key, emitting one del statement. An absent key fails
// ErrKeyNotFound before the linked-state check, giving the more specific
// diagnosis even on a detached dict.
func (d *Dict) Delete(key any) error {
	k, ok := d.lookupKey(key)
	if !ok {
		return fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	if err := d.checkLinked(); err != nil {
		return err
	}

	kr, err := d.store.repr(k)
	if err != nil {
		return err
	}
	unlinkValue(d.data[k])
	delete(d.data, k)
	return d.store.append("del " + d.accessor + "[" + kr + "]")
}

// lookupKey normalizes key and reports whether it addresses an entry.
func (d *Dict) lookupKey(key any) (any, bool) {
	if n, ok := value.Normalize(key); ok {
		key = n
	}
	if !value.Comparable(key) {
		return nil, false
	}
	_, ok := d.data[key]
	return key, ok
}
