package store

import (
	"reflect"

	"github.com/mutlog/mutlog/value"
)

// node carries the shared trackable state: a non-owning back-reference to the
// store and the accessor path under which the node is currently reachable.
// An empty accessor means the node is detached. Ownership always flows
// root-to-leaf; the back-reference exists only so mutators can reach the
// codec and the log sink.
type node struct {
	store    *Store
	accessor string
}

func (n *node) linked() bool { return n.accessor != "" }

// checkLinked gates every mutator. More specific pre-checks (absent key,
// out-of-range index) run before this one.
func (n *node) checkLinked() error {
	if !n.linked() {
		return ErrDetachedMutation
	}
	return nil
}

// childAccessor derives the accessor of the slot addressed by key, whose
// repr is already known to succeed because it was produced when the key was
// inserted.
func (n *node) childAccessor(keyRepr string) string {
	return n.accessor + "[" + keyRepr + "]"
}

// tracked is the capability shared by the three container nodes.
type tracked interface {
	link(accessor string)
	unlink()
	plain() any
}

// linkValue sets the accessor of v and, transitively, of its whole subtree.
// Primitives and opaque handler values carry no accessor.
func linkValue(v any, accessor string) {
	if t, ok := v.(tracked); ok {
		t.link(accessor)
	}
}

// unlinkValue detaches v and its whole subtree in one pass.
func unlinkValue(v any) {
	if t, ok := v.(tracked); ok {
		t.unlink()
	}
}

func isNode(v any) bool {
	_, ok := v.(tracked)
	return ok
}

// plainValue exports a wrapped value back to its plain form.
func plainValue(v any) any {
	if t, ok := v.(tracked); ok {
		return t.plain()
	}
	return v
}

// identical reports identity equality: pointer equality for container nodes,
// plain == for comparable values. It is deliberately narrower than value
// equality; reassigning an equal-but-distinct value still logs.
func identical(a, b any) bool {
	if n, ok := value.Normalize(b); ok {
		b = n
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}
