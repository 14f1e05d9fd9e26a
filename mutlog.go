// Package mutlog checkpoints long-running, preemptible computations into a
// durable, human-diffable text log. A Store tracks a tree of mutable
// containers (dicts, lists, sets) and appends every mutation to the log as a
// self-contained statement; replaying the log from empty state reconstructs
// an equivalent tree, so a crashed run resumes exactly where it stopped.
//
// This package ties the pieces together for the common file-backed case.
// The container layer lives in package store, the replay engine in package
// replay.
package mutlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mutlog/mutlog/replay"
	"github.com/mutlog/mutlog/store"
)

// options configures Open and Create.
type options struct {
	initial  any
	handlers []store.TypeHandler
	symbols  replay.Symbols
	truncate bool
}

// Option adjusts how a file store is opened.
type Option func(*options)

// WithInitialData seeds a fresh log with the given tree. Ignored when an
// existing log is resumed; the replayed state wins.
func WithInitialData(initial any) Option {
	return func(o *options) { o.initial = initial }
}

// WithHandlers installs the type handler chain, consulted in order.
func WithHandlers(handlers ...store.TypeHandler) Option {
	return func(o *options) { o.handlers = append(o.handlers, handlers...) }
}

// WithSymbols supplies the symbol table used when resuming an existing log
// that contains qualified references.
func WithSymbols(syms replay.Symbols) Option {
	return func(o *options) { o.symbols = syms }
}

// WithTruncate discards any existing log instead of resuming it.
func WithTruncate() Option {
	return func(o *options) { o.truncate = true }
}

// Open opens the log at path. An existing non-empty log is replayed and the
// returned store resumes it, appending after the prior history; otherwise
// the store starts from the initial data (empty by default). Either way one
// fresh snapshot statement is written.
//
// At most one live writer per path: resuming after a crash appends to the
// log rather than locking it, so the caller must ensure no prior writer is
// still active.
func Open(path string, opts ...Option) (*store.Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	initial := o.initial
	if !o.truncate {
		resumed, err := loadExisting(path, o.symbols)
		if err != nil {
			return nil, err
		}
		if resumed != nil {
			initial = resumed
		}
	}

	var (
		sink *store.FileSink
		err  error
	)
	if o.truncate {
		sink, err = store.CreateFileSink(path)
	} else {
		sink, err = store.OpenFileSink(path)
	}
	if err != nil {
		return nil, err
	}

	st, err := store.New(sink, initial, o.handlers...)
	if err != nil {
		sink.Close()
		return nil, err
	}
	return st, nil
}

// Create opens the log at path, truncating any previous content.
func Create(path string, opts ...Option) (*store.Store, error) {
	return Open(path, append(opts, WithTruncate())...)
}

// loadExisting replays path if it holds any history, returning nil when the
// file is absent or empty. A corrupt log is surfaced, not silently replaced;
// callers wanting a fresh start must truncate explicitly.
func loadExisting(path string, syms replay.Symbols) (map[any]any, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat log %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, nil
	}
	return replay.LoadFile(path, syms)
}

// LogName builds a log path under dir from a base name and a timestamp id,
// the conventional naming for a new checkpoint file:
// dir/<name>_<YYYY-MM-DD-hhmmss>.mutlog.
func LogName(dir, name string) string {
	return filepath.Join(dir, name+"_"+time.Now().Format("2006-01-02-150405")+".mutlog")
}

// ErrInvalidLog reports a log that cannot be fully replayed. Alias of the
// replay engine's error, for callers that only import this package.
var ErrInvalidLog = replay.ErrInvalidLog

// Load, LoadFile and Compact re-export the replay entry points.

func Load(r io.Reader, syms replay.Symbols) (map[any]any, error) {
	return replay.Load(r, syms)
}

func LoadFile(path string, syms replay.Symbols) (map[any]any, error) {
	return replay.LoadFile(path, syms)
}

func Compact(srcPath, dstPath string, syms replay.Symbols, handlers ...store.TypeHandler) error {
	return replay.Compact(srcPath, dstPath, syms, handlers...)
}
