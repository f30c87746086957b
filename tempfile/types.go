package tempfile

import "io"

// Writer defines the interface for an output that only becomes visible once committed.
// Implementations handle the underlying storage mechanism (disk or memory).
type Writer interface {
	// Close discards anything not yet committed and releases resources.
	// Calling Close after a successful Commit is a no-op.
	io.Closer

	// Write appends data to the pending output.
	Write(p []byte) (int, error)

	// WriteString appends string data to the pending output.
	WriteString(s string) (int, error)

	// Commit publishes the pending output. After Commit the Writer accepts no more data.
	Commit() error
}

var (
	_ Writer = (*FileWriter)(nil)
	_ Writer = (*MockWriter)(nil)
)
