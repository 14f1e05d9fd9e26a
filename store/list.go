package store

import (
	"fmt"
	"strconv"

	"github.com/mutlog/mutlog/value"
)

// List is a live mutable sequence node: dense and index-addressable.
// Slice-style operations are not part of the surface; the log grammar only
// expresses single-slot changes.
type List struct {
	node
	elems []any
}

func newList(s *Store) *List {
	return &List{node: node{store: s}}
}

func (l *List) link(accessor string) {
	l.accessor = accessor
	l.relinkFrom(0)
}

func (l *List) unlink() {
	l.accessor = ""
	for _, e := range l.elems {
		unlinkValue(e)
	}
}

// relinkFrom refreshes the accessors of elements at index i and above.
// Inserting or deleting shifts every later slot, so their subtrees must be
// re-addressed or subsequent mutations through them would log stale paths.
func (l *List) relinkFrom(i int) {
	for ; i < len(l.elems); i++ {
		linkValue(l.elems[i], l.childAccessor(strconv.Itoa(i)))
	}
}

func (l *List) plain() any { return l.Plain() }

// Plain exports the subtree rooted here as a plain slice.
func (l *List) Plain() []any {
	out := make([]any, len(l.elems))
	for i, e := range l.elems {
		out[i] = plainValue(e)
	}
	return out
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// At returns the wrapped element at index i.
func (l *List) At(i int) (any, error) {
	if i < 0 || i >= len(l.elems) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(l.elems))
	}
	return l.elems[i], nil
}

// Append wraps val and adds it at the end, emitting one append statement.
func (l *List) Append(val any) error {
	if err := l.checkLinked(); err != nil {
		return err
	}
	w, err := l.store.wrap(val)
	if err != nil {
		return err
	}
	vr, err := l.store.repr(w)
	if err != nil {
		return err
	}
	l.elems = append(l.elems, w)
	if err := l.store.append(l.accessor + ".append(" + vr + ")"); err != nil {
		return err
	}
	linkValue(w, l.childAccessor(strconv.Itoa(len(l.elems)-1)))
	return nil
}

// Insert wraps val and places it before index i, shifting later elements.
// i may equal Len (append position); anything outside [0, Len] fails
// ErrIndexOutOfRange before the linked-state check.
func (l *List) Insert(i int, val any) error {
	if i < 0 || i > len(l.elems) {
		return fmt.Errorf("%w: insert at %d (len %d)", ErrIndexOutOfRange, i, len(l.elems))
	}
	if err := l.checkLinked(); err != nil {
		return err
	}
	w, err := l.store.wrap(val)
	if err != nil {
		return err
	}
	vr, err := l.store.repr(w)
	if err != nil {
		return err
	}
	l.elems = append(l.elems, nil)
	copy(l.elems[i+1:], l.elems[i:])
	l.elems[i] = w
	if err := l.store.append(l.accessor + ".insert(" + strconv.Itoa(i) + ", " + vr + ")"); err != nil {
		return err
	}
	l.relinkFrom(i)
	return nil
}

// SetIndex replaces the element at index i. Bounds are checked before the
// linked-state check. Assigning the identical value is a no-op and logs
// nothing; the previous occupant and its subtree are detached.
func (l *List) SetIndex(i int, val any) error {
	if i < 0 || i >= len(l.elems) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(l.elems))
	}
	if err := l.checkLinked(); err != nil {
		return err
	}

	old := l.elems[i]
	if identical(old, val) {
		return nil
	}

	w, err := l.store.wrap(val)
	if err != nil {
		return err
	}
	vr, err := l.store.repr(w)
	if err != nil {
		return err
	}
	unlinkValue(old)
	l.elems[i] = w
	if err := l.store.append(l.accessor + "[" + strconv.Itoa(i) + "] = " + vr); err != nil {
		return err
	}
	linkValue(w, l.childAccessor(strconv.Itoa(i)))
	return nil
}

// DeleteIndex removes the element at index i, detaching its subtree and
// re-addressing the elements after it.
func (l *List) DeleteIndex(i int) error {
	if i < 0 || i >= len(l.elems) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(l.elems))
	}
	if err := l.checkLinked(); err != nil {
		return err
	}
	unlinkValue(l.elems[i])
	l.elems = append(l.elems[:i], l.elems[i+1:]...)
	if err := l.store.append("del " + l.accessor + "[" + strconv.Itoa(i) + "]"); err != nil {
		return err
	}
	l.relinkFrom(i)
	return nil
}

// Clear detaches every element and empties the list with one statement.
func (l *List) Clear() error {
	if err := l.checkLinked(); err != nil {
		return err
	}
	for _, e := range l.elems {
		unlinkValue(e)
	}
	l.elems = nil
	return l.store.append(l.accessor + ".clear()")
}

// Equal compares element-by-element against another List or a plain slice.
func (l *List) Equal(other any) bool {
	switch t := other.(type) {
	case *List:
		return value.Equal(l.Plain(), t.Plain())
	case []any:
		return value.Equal(l.Plain(), t)
	default:
		return false
	}
}
