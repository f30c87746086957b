package uniq

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// readerSource splits an io.Reader into delimiter-terminated lines.
type readerSource struct {
	r     *bufio.Reader
	delim byte
}

// NewReaderSource returns a LineSource reading lines from r.
// Lines are split on the delimiter selected by config and keep it;
// a final line without a delimiter is returned as-is.
func NewReaderSource(r io.Reader, config *Config) LineSource {
	config = mergeConfig(config)
	return &readerSource{
		r:     bufio.NewReaderSize(r, config.ReadBufferSize),
		delim: config.Delimiter(),
	}
}

func (s *readerSource) ReadLine() (string, error) {
	line, err := s.r.ReadString(s.delim)
	if err == io.EOF && len(line) > 0 {
		// unterminated last line; the next call reports io.EOF
		return line, nil
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// chanSource reads lines from a channel until it is closed.
type chanSource struct {
	ctx context.Context
	in  <-chan string
}

// NewChanSource returns a LineSource reading lines from in.
// A closed channel is end of input; once ctx is done ReadLine returns ctx.Err().
func NewChanSource(ctx context.Context, in <-chan string) LineSource {
	return &chanSource{ctx: ctx, in: in}
}

func (s *chanSource) ReadLine() (string, error) {
	select {
	case line, ok := <-s.in:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-s.ctx.Done():
		return "", s.ctx.Err()
	}
}

// contextSource reads lines from a goroutine so that a blocked read can be abandoned.
type contextSource struct {
	ctx   context.Context
	lines <-chan string
	errc  <-chan error
	err   error
}

// NewReaderSourceContext is like NewReaderSource but reads r ahead in its own goroutine,
// buffered by config.ChanBuffSize lines. Once ctx is done ReadLine returns ctx.Err()
// even while a read of r is blocked or lines are still pending.
// Cancel ctx to release the goroutine when abandoning the source before io.EOF; a read
// of r that never returns keeps it alive until r is closed.
func NewReaderSourceContext(ctx context.Context, r io.Reader, config *Config) LineSource {
	config = mergeConfig(config)
	lines := make(chan string, config.ChanBuffSize)
	errc := make(chan error, 1)
	go func() {
		if err := readLines(ctx, r, config, lines); err != nil {
			var readErr *ReadError
			if errors.As(err, &readErr) {
				err = readErr.Err
			}
			errc <- err
		}
	}()
	return &contextSource{ctx: ctx, lines: lines, errc: errc}
}

func (s *contextSource) ReadLine() (string, error) {
	if err := s.ctx.Err(); err != nil {
		return "", err
	}
	if s.err == nil {
		select {
		case line, ok := <-s.lines:
			if !ok {
				return "", io.EOF
			}
			return line, nil
		case s.err = <-s.errc:
		case <-s.ctx.Done():
			return "", s.ctx.Err()
		}
	}
	// lines read before the failure are still buffered and come first
	select {
	case line := <-s.lines:
		return line, nil
	default:
		return "", s.err
	}
}
