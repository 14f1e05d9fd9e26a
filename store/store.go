package store

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mutlog/mutlog/value"
)

// RootAccessor is the accessor the root dict is linked at. It is the only
// entry point into the tree and the left-hand anchor of every log statement.
const RootAccessor = "store"

// Store owns the log sink, the type handler chain and the root dict. It is
// the single write funnel: every mutation of any node in the tree results in
// exactly one appended statement.
//
// A Store is single-threaded by design. Every operation completes before the
// caller observes a result and is flushed durably before the mutator
// returns.
type Store struct {
	sink     Sink
	handlers []TypeHandler
	root     *Dict
	location string
}

// New wraps initial into the root dict, links it at RootAccessor and writes
// the initial snapshot statement. A nil initial starts the store empty.
// initial must wrap to a mapping.
func New(sink Sink, initial any, handlers ...TypeHandler) (*Store, error) {
	s := &Store{
		sink:     sink,
		handlers: handlers,
		location: sinkLocation(sink),
	}

	if initial == nil {
		s.root = newDict(s)
	} else {
		wrapped, err := s.wrap(initial)
		if err != nil {
			return nil, fmt.Errorf("wrap initial data: %w", err)
		}
		root, ok := wrapped.(*Dict)
		if !ok {
			return nil, fmt.Errorf("%w: initial data must be a mapping, got %T", ErrInvalidOperation, initial)
		}
		s.root = root
	}

	s.root.link(RootAccessor)

	snapshot, err := s.repr(s.root)
	if err != nil {
		return nil, fmt.Errorf("snapshot initial data: %w", err)
	}
	if err := s.append(RootAccessor + " = " + snapshot); err != nil {
		return nil, err
	}

	slog.Debug("store opened", "location", s.location, "handlers", len(handlers))
	return s, nil
}

func sinkLocation(sink Sink) string {
	if fs, ok := sink.(*FileSink); ok {
		return fs.Path()
	}
	return "mem:" + uuid.NewString()
}

// Location returns an opaque identifier for diagnostics: the log path for
// file-backed stores, a generated id otherwise.
func (s *Store) Location() string { return s.location }

// Root returns the root dict. It is linked for the store's whole lifetime
// and never detachable.
func (s *Store) Root() *Dict { return s.root }

// Close releases the sink. The store must not be mutated afterwards.
func (s *Store) Close() error {
	slog.Debug("store closed", "location", s.location)
	return s.sink.Close()
}

// Set, Get, Has, Delete, Len and Keys expose the root dict's mapping surface
// directly on the store.

func (s *Store) Set(key, val any) error  { return s.root.Set(key, val) }
func (s *Store) Get(key any) (any, bool) { return s.root.Get(key) }
func (s *Store) Has(key any) bool        { return s.root.Has(key) }
func (s *Store) Delete(key any) error    { return s.root.Delete(key) }
func (s *Store) Len() int                { return s.root.Len() }
func (s *Store) Keys() []any             { return s.root.Keys() }

// Plain exports the whole tree in plain form.
func (s *Store) Plain() map[any]any { return s.root.Plain() }

// append writes one statement and forces durability before returning.
func (s *Store) append(statement string) error {
	return s.sink.Append(statement)
}

// wrap converts an arbitrary input into its wrapped form. Primitives pass
// through normalized; plain maps, slices and sets recurse into matching
// nodes; a detached node is adopted as-is (a move: its source slot is
// guaranteed unreachable), while a still-linked node is deep-copied so no
// two slots ever share a subtree. Anything else is offered to the handler
// chain in order.
func (s *Store) wrap(v any) (any, error) {
	if p, ok := value.Normalize(v); ok {
		if f, isFloat := p.(float64); isFloat && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return nil, fmt.Errorf("%w: non-finite float", ErrUnsupportedType)
		}
		return p, nil
	}

	switch t := v.(type) {
	case *Dict:
		if t.linked() || t.store != s {
			return s.wrap(t.Plain())
		}
		return t, nil
	case *List:
		if t.linked() || t.store != s {
			return s.wrap(t.Plain())
		}
		return t, nil
	case *Set:
		if t.linked() || t.store != s {
			return s.wrap(t.Plain())
		}
		return t, nil
	case map[any]any:
		return s.wrapDict(t)
	case map[string]any:
		m := make(map[any]any, len(t))
		for k, val := range t {
			m[k] = val
		}
		return s.wrapDict(m)
	case []any:
		return s.wrapList(t)
	case value.Set:
		return s.wrapSet(t)
	}

	// Generic maps and slices are accepted the way any other sequence or
	// mapping is, before falling back to the handler chain.
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return s.wrapList(elems)
	case reflect.Map:
		m := make(map[any]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().Interface()] = iter.Value().Interface()
		}
		return s.wrapDict(m)
	}

	for _, h := range s.handlers {
		if !h.Supports(v) {
			continue
		}
		out, err := h.Wrap(v, s.wrap)
		if err != nil {
			return nil, err
		}
		if identical(out, v) {
			// Kept opaque: the handler renders it at repr time.
			return v, nil
		}
		return s.wrap(out)
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

func (s *Store) wrapDict(m map[any]any) (*Dict, error) {
	d := newDict(s)
	for k, val := range m {
		wk, err := s.wrapKey(k)
		if err != nil {
			return nil, err
		}
		wv, err := s.wrap(val)
		if err != nil {
			return nil, err
		}
		d.data[wk] = wv
	}
	return d, nil
}

func (s *Store) wrapList(elems []any) (*List, error) {
	l := newList(s)
	l.elems = make([]any, 0, len(elems))
	for _, e := range elems {
		w, err := s.wrap(e)
		if err != nil {
			return nil, err
		}
		l.elems = append(l.elems, w)
	}
	return l, nil
}

func (s *Store) wrapSet(src value.Set) (*Set, error) {
	set := newSet(s)
	for e := range src {
		w, err := s.wrapElem(e)
		if err != nil {
			return nil, err
		}
		set.elems[w] = struct{}{}
	}
	return set, nil
}

// wrapKey wraps a dict key. Keys must stay flat: after wrapping they may be
// primitives or opaque handler values, never container nodes, and must be
// comparable so the backing map can hold them.
func (s *Store) wrapKey(k any) (any, error) {
	w, err := s.wrap(k)
	if err != nil {
		return nil, err
	}
	if isNode(w) {
		return nil, fmt.Errorf("%w: dict keys must be primitive, got %T", ErrInvalidOperation, k)
	}
	if !value.Comparable(w) {
		return nil, fmt.Errorf("%w: dict key %T is not comparable", ErrInvalidOperation, k)
	}
	return w, nil
}

// wrapElem wraps a set element under the same flatness rule as dict keys.
func (s *Store) wrapElem(e any) (any, error) {
	w, err := s.wrap(e)
	if err != nil {
		return nil, err
	}
	if isNode(w) {
		return nil, fmt.Errorf("%w: set elements must be primitive, got %T", ErrInvalidOperation, e)
	}
	if !value.Comparable(w) {
		return nil, fmt.Errorf("%w: set element %T is not comparable", ErrInvalidOperation, e)
	}
	return w, nil
}

// repr renders any wrapped (or plain) value as canonical literal text,
// delegating opaque values to the first claiming handler. Container entries
// are ordered by their literal text so snapshots are deterministic and
// diffable.
func (s *Store) repr(v any) (string, error) {
	if value.IsPrimitive(v) {
		return value.Repr(v)
	}

	switch t := v.(type) {
	case *Dict:
		return s.reprDict(t.data)
	case *List:
		return s.reprList(t.elems)
	case *Set:
		return s.reprSet(t.elems)
	case map[any]any:
		return s.reprDict(t)
	case []any:
		return s.reprList(t)
	case value.Set:
		elems := make(map[any]struct{}, len(t))
		for e := range t {
			elems[e] = struct{}{}
		}
		return s.reprSet(elems)
	}

	for _, h := range s.handlers {
		if h.Supports(v) {
			return h.Repr(v, s.repr, s)
		}
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

func (s *Store) reprDict(data map[any]any) (string, error) {
	entries := make([]string, 0, len(data))
	for k, v := range data {
		kr, err := s.repr(k)
		if err != nil {
			return "", err
		}
		vr, err := s.repr(v)
		if err != nil {
			return "", err
		}
		entries = append(entries, kr+": "+vr)
	}
	sort.Strings(entries)
	return "{" + strings.Join(entries, ", ") + "}", nil
}

func (s *Store) reprList(elems []any) (string, error) {
	parts := make([]string, len(elems))
	for i, e := range elems {
		r, err := s.repr(e)
		if err != nil {
			return "", err
		}
		parts[i] = r
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

func (s *Store) reprSet(elems map[any]struct{}) (string, error) {
	if len(elems) == 0 {
		// A bare {} is an empty mapping; empty sets use the call form.
		return "set()", nil
	}
	parts := make([]string, 0, len(elems))
	for e := range elems {
		r, err := s.repr(e)
		if err != nil {
			return "", err
		}
		parts = append(parts, r)
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}", nil
}
