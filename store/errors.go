package store

import "errors"

// Error taxonomy for the container layer. Each error aborts only the
// triggering call; the store is never left half-mutated by a rejected call.
var (
	// ErrUnsupportedType reports a value no primitive, container or type
	// handler classification could claim.
	ErrUnsupportedType = errors.New("store: unsupported value type")

	// ErrDetachedMutation reports a mutator called on a node whose accessor
	// is unset, i.e. one no longer reachable from the root. This is a caller
	// programming error and is never silently ignored.
	ErrDetachedMutation = errors.New("store: mutation on detached container")

	// ErrKeyNotFound reports a delete of an absent dict key. Checked before
	// the linked-state check so callers get the more specific diagnosis.
	ErrKeyNotFound = errors.New("store: key not found")

	// ErrIndexOutOfRange reports a list index outside [0, len). Also checked
	// before the linked-state check.
	ErrIndexOutOfRange = errors.New("store: index out of range")

	// ErrInvalidOperation reports a shape the log grammar cannot express,
	// such as a container-valued dict key or set element.
	ErrInvalidOperation = errors.New("store: invalid operation")
)
