package uniq

import (
	"bufio"
	"context"
	"io"

	"golang.org/x/sync/errgroup"
)

// Chan returns a channel of output records for the lines read from in.
// Equal adjacent lines are collapsed into one record per run, filtered and
// formatted according to config.
//
// The record channel is closed when in is closed and the last run has been
// emitted, or when ctx is done. The error channel receives at most one error
// and is then closed. The caller must drain the record channel or cancel ctx.
func Chan(ctx context.Context, in <-chan string, config *Config) (<-chan string, <-chan error) {
	config = mergeConfig(config)
	out := make(chan string, config.ChanBuffSize)
	errChan := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return emitRecords(gctx, NewChanSource(gctx, in), config, out)
	})
	go wait(g, errChan)
	return out, errChan
}

// ReaderChan is like Chan but reads delimiter-terminated lines from r.
// Reading runs in its own goroutine ahead of run detection, buffered by
// config.ChanBuffSize lines. The first failure of either stage cancels the other.
func ReaderChan(ctx context.Context, r io.Reader, config *Config) (<-chan string, <-chan error) {
	config = mergeConfig(config)
	lines := make(chan string, config.ChanBuffSize)
	out := make(chan string, config.ChanBuffSize)
	errChan := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return readLines(gctx, r, config, lines)
	})
	g.Go(func() error {
		return emitRecords(gctx, NewChanSource(gctx, lines), config, out)
	})
	go wait(g, errChan)
	return out, errChan
}

// readLines pushes every line of r into lines, closing it when r is exhausted.
// lines is only closed on success; on failure the group's cancellation releases the consumer.
func readLines(ctx context.Context, r io.Reader, config *Config, lines chan<- string) error {
	br := bufio.NewReaderSize(r, config.ReadBufferSize)
	delim := config.Delimiter()
	var n uint64
	for {
		line, err := br.ReadString(delim)
		if len(line) > 0 && (err == nil || err == io.EOF) {
			n++
			select {
			case lines <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err == io.EOF {
			close(lines)
			return nil
		}
		if err != nil {
			return &ReadError{Line: n + 1, Err: err}
		}
	}
}

// emitRecords runs a Processor over src and sends each record to out, closing it when done.
func emitRecords(ctx context.Context, src LineSource, config *Config, out chan<- string) error {
	defer close(out)

	p, err := New(src, config)
	if err != nil {
		return err
	}
	for {
		rec, err := p.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		select {
		case out <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func wait(g *errgroup.Group, errChan chan<- error) {
	if err := g.Wait(); err != nil {
		errChan <- err
	}
	close(errChan)
}
