package tempfile

import (
	"bytes"
)

// MockWriter provides an in-memory implementation of the Writer interface.
// Pending data is kept in a buffer and only copied to Bytes on Commit.
// This is useful for testing without filesystem I/O.
type MockWriter struct {
	pending   *bytes.Buffer
	committed []byte
	ok        bool
	finished  bool
}

// Mock creates a new in-memory Writer with the specified initial capacity.
func Mock(n int) *MockWriter {
	return &MockWriter{pending: bytes.NewBuffer(make([]byte, 0, n))}
}

// Write appends data to the pending buffer.
func (w *MockWriter) Write(p []byte) (int, error) {
	if w.finished {
		return 0, ErrFinished
	}
	return w.pending.Write(p)
}

// WriteString appends string data to the pending buffer.
func (w *MockWriter) WriteString(s string) (int, error) {
	if w.finished {
		return 0, ErrFinished
	}
	return w.pending.WriteString(s)
}

// Commit publishes the pending buffer.
func (w *MockWriter) Commit() error {
	if w.finished {
		return ErrFinished
	}
	w.finished = true
	w.committed = bytes.Clone(w.pending.Bytes())
	w.ok = true
	w.pending = nil
	return nil
}

// Close drops anything not committed.
func (w *MockWriter) Close() error {
	w.finished = true
	w.pending = nil
	return nil
}

// Committed reports whether Commit succeeded.
func (w *MockWriter) Committed() bool {
	return w.ok
}

// Bytes returns the committed data, or nil if nothing was committed.
func (w *MockWriter) Bytes() []byte {
	return w.committed
}
