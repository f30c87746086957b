// Package tempfile implements an output file that is written to a hidden temporary
// sibling of its target and only renamed into place on Commit. Readers of the target
// never observe a partial file, and a target that is also being read as input is not
// truncated before the input has been consumed.
package tempfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// file IO buffer size for each file
	fileBufferSize = 1 << 16 // 64k
	// mode for newly created targets, before umask
	defaultFileMode fs.FileMode = 0o644
)

// ErrFinished is returned by writes after Commit or Close.
var ErrFinished = errors.New("tempfile: writer already committed or closed")

// FileWriter writes to a temporary file next to its target.
type FileWriter struct {
	file      *os.File
	bufWriter *bufio.Writer
	target    string
	finished  bool
}

// New creates a temporary file in the directory of target.
// Nothing is written to target itself until Commit.
func New(target string) (*FileWriter, error) {
	if target == "" {
		return nil, errors.New("tempfile: empty target path")
	}
	dir, base := filepath.Split(target)
	if dir == "" {
		dir = "."
	}
	file, err := os.CreateTemp(dir, fmt.Sprintf(".%s.%d.", base, os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &FileWriter{
		file:      file,
		bufWriter: bufio.NewWriterSize(file, fileBufferSize),
		target:    target,
	}, nil
}

// Name returns the path of the temporary file.
func (w *FileWriter) Name() string {
	return w.file.Name()
}

// Target returns the path the file is committed to.
func (w *FileWriter) Target() string {
	return w.target
}

func (w *FileWriter) Write(p []byte) (int, error) {
	if w.finished {
		return 0, ErrFinished
	}
	return w.bufWriter.Write(p)
}

func (w *FileWriter) WriteString(s string) (int, error) {
	if w.finished {
		return 0, ErrFinished
	}
	return w.bufWriter.WriteString(s)
}

// Commit flushes and syncs the temporary file and renames it over the target.
// The target keeps its permissions if it already existed.
// On failure the temporary file is removed and the target is left untouched.
func (w *FileWriter) Commit() error {
	if w.finished {
		return ErrFinished
	}
	w.finished = true

	err := w.commit()
	if err != nil {
		_ = w.file.Close()
		_ = os.Remove(w.file.Name())
	}
	return err
}

func (w *FileWriter) commit() error {
	if err := w.bufWriter.Flush(); err != nil {
		return err
	}
	if err := w.file.Sync(); err != nil {
		return err
	}
	mode := defaultFileMode
	if fi, err := os.Stat(w.target); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := w.file.Chmod(mode); err != nil {
		return err
	}
	if err := w.file.Close(); err != nil {
		return err
	}
	return os.Rename(w.file.Name(), w.target)
}

// Close discards the temporary file unless Commit already succeeded.
// It works like an abort and is safe to call more than once, so it can be deferred
// right after New.
func (w *FileWriter) Close() error {
	if w.finished {
		return nil
	}
	w.finished = true
	w.bufWriter = nil
	err := w.file.Close()
	if rmErr := os.Remove(w.file.Name()); err == nil {
		err = rmErr
	}
	return err
}
