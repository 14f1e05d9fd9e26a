package replay

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mutlog/mutlog/store"
)

// ErrInvalidLog reports a log that cannot be fully replayed. Every lexical,
// syntactic and evaluation failure wraps it; a log is either fully
// replayable or corrupt.
var ErrInvalidLog = errors.New("replay: invalid log")

// LoadString replays the log text and returns the root mapping as a plain
// tree. syms resolves any qualified references a type handler emitted; pass
// nil for logs containing only stock literals.
//
// A non-empty log whose final line lacks a newline terminator is the mark of
// a crash mid-write and is rejected outright, never recovered partially.
func LoadString(text string, syms Symbols) (map[any]any, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty log", ErrInvalidLog)
	}
	if !strings.HasSuffix(text, "\n") {
		return nil, fmt.Errorf("%w: truncated final line", ErrInvalidLog)
	}
	p, err := newParser(text, syms)
	if err != nil {
		return nil, err
	}
	root, err := p.run()
	if err != nil {
		return nil, err
	}
	slog.Debug("log replayed", "lines", p.lx.line-1)
	return root, nil
}

// Load reads everything from r and replays it.
func Load(r io.Reader, syms Symbols) (map[any]any, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return LoadString(string(text), syms)
}

// LoadFile replays the log at path.
func LoadFile(path string, syms Symbols) (map[any]any, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	tree, err := LoadString(string(text), syms)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// Compact collapses the source log's full history into a single snapshot
// statement at dstPath: the source is replayed and a fresh store is written
// with the loaded tree as its initial data. This is the log's only
// maintenance operation and is idempotent. Handlers must cover any opaque
// values the symbols resolve, or the snapshot cannot be rendered.
func Compact(srcPath, dstPath string, syms Symbols, handlers ...store.TypeHandler) error {
	tree, err := LoadFile(srcPath, syms)
	if err != nil {
		return err
	}

	sink, err := store.CreateFileSink(dstPath)
	if err != nil {
		return err
	}
	st, err := store.New(sink, tree, handlers...)
	if err != nil {
		sink.Close()
		return fmt.Errorf("compact %s: %w", srcPath, err)
	}
	slog.Debug("log compacted", "src", srcPath, "dst", dstPath)
	return st.Close()
}
