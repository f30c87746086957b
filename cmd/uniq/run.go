package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/lanrat/uniq"
	"github.com/lanrat/uniq/tempfile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const stdioName = "-"

func runUniq(cmd *cobra.Command, opts *options, args []string) error {
	inPath, outPath := stdioName, stdioName
	if len(args) > 0 {
		inPath = args[0]
	}
	if len(args) > 1 {
		outPath = args[1]
	}

	in, err := openInput(inPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(outPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer out.Close()

	config := opts.config
	config.Logger = logger
	logger.Debug("starting",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.Stringer("mode", config.Mode),
		zap.Bool("count", config.Count),
		zap.Bool("zero_terminated", config.ZeroTerminated))

	return process(cmd.Context(), in, out, &config)
}

// process collapses in into out and commits out on success.
// Reading stops as soon as ctx is done, even mid-run or while blocked on in.
func process(ctx context.Context, in io.Reader, out tempfile.Writer, config *uniq.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, err := uniq.New(uniq.NewReaderSourceContext(ctx, in, config), config)
	if err != nil {
		return err
	}
	stats, err := uniq.Copy(ctx, out, p)
	if err != nil {
		logger.Debug("aborted", zap.Stringer("stats", stats), zap.Error(err))
		return err
	}
	if err := out.Commit(); err != nil {
		return uniq.NewIOError(err, "commit output", "")
	}
	logger.Debug("finished", zap.Stringer("stats", stats))
	return nil
}

// openInput opens the named input, or returns stdin for "-".
// The caller closes the result; closing stdin is a no-op.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == stdioName {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, uniq.NewIOError(err, "open input", "")
	}
	return f, nil
}

// openOutput returns a sink for the named output, or a buffered stdout for "-".
// File output only replaces the target when committed.
func openOutput(path string, stdout io.Writer) (tempfile.Writer, error) {
	if path == stdioName {
		return &stdoutSink{Writer: bufio.NewWriter(stdout)}, nil
	}
	w, err := tempfile.New(path)
	if err != nil {
		return nil, uniq.NewIOError(err, "create output", path)
	}
	return w, nil
}

// stdoutSink buffers writes to stdout. Full buffers are flushed as they fill, so a failed
// run may already have written part of its output; Close drops only the unflushed tail.
type stdoutSink struct {
	*bufio.Writer
}

func (s *stdoutSink) Commit() error {
	return s.Flush()
}

func (s *stdoutSink) Close() error {
	return nil
}
