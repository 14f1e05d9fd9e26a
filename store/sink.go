package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// Sink is the durable append target backing a Store. Append writes one
// statement as a newline-terminated line and makes it durable before
// returning; there is no cross-call buffering. A Sink is exclusively owned
// by one Store for its lifetime.
type Sink interface {
	Append(statement string) error
	Close() error
}

// FileSink appends statements to a log file, syncing after every line so a
// crash immediately after a successful mutation never loses its statement.
type FileSink struct {
	f    *os.File
	path string
}

// OpenFileSink opens (or creates) the log at path for appending. An existing
// log is extended, which is how a resuming process continues a prior run's
// history.
func OpenFileSink(path string) (*FileSink, error) {
	return newFileSink(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY)
}

// CreateFileSink creates the log at path, truncating any previous content.
func CreateFileSink(path string) (*FileSink, error) {
	return newFileSink(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY)
}

func newFileSink(path string, flag int) (*FileSink, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return &FileSink{f: f, path: path}, nil
}

// Path returns the log file location.
func (s *FileSink) Path() string { return s.path }

// Append writes the statement followed by a newline and forces it to stable
// storage before returning.
func (s *FileSink) Append(statement string) error {
	if s.f == nil {
		return errors.New("store: append on closed sink")
	}
	if _, err := s.f.WriteString(statement + "\n"); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", s.path, err)
	}
	return nil
}

// Close releases the underlying file. The owning Store must not be mutated
// afterwards.
func (s *FileSink) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// BufferSink collects statements in memory. Used by tests and by the replay
// verifier to obtain a canonical snapshot without touching the filesystem.
type BufferSink struct {
	buf    bytes.Buffer
	closed bool
}

// Append records the statement as one line.
func (s *BufferSink) Append(statement string) error {
	if s.closed {
		return errors.New("store: append on closed sink")
	}
	s.buf.WriteString(statement)
	s.buf.WriteByte('\n')
	return nil
}

// Close marks the sink closed; further appends fail.
func (s *BufferSink) Close() error {
	s.closed = true
	return nil
}

// String returns the accumulated log text.
func (s *BufferSink) String() string { return s.buf.String() }
