package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/lanrat/uniq"
	"github.com/lanrat/uniq/tempfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// runCmd executes a fresh root command and returns its stdout and stderr.
func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	logger = zap.NewNop()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDistinctLinesFromFile(t *testing.T) {
	path := writeInput(t, "line1\nline2\nline3\nline4\n")

	out, _, err := runCmd(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\nline3\nline4\n", out)
}

func TestDistinctLinesFromStdin(t *testing.T) {
	out, _, err := runCmd(t, "line1\nline2\nline3\nline4", "-")
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\nline3\nline4\n", out)

	out, _, err = runCmd(t, "line1\nline2\nline3\nline4\n")
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\nline3\nline4\n", out)
}

func TestCount(t *testing.T) {
	path := writeInput(t, "line1\nline1\nline2\nline3\n")

	out, _, err := runCmd(t, "", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, "2 line1\n1 line2\n1 line3\n", out)

	out, _, err = runCmd(t, "", "--count", path)
	require.NoError(t, err)
	assert.Equal(t, "2 line1\n1 line2\n1 line3\n", out)
}

func TestRepeated(t *testing.T) {
	input := "first\nsame\nsame\nsame\nsame\nsame\nlast\n"

	out, _, err := runCmd(t, input, "-d")
	require.NoError(t, err)
	assert.Equal(t, "same\n", out)

	out, _, err = runCmd(t, input, "-c", "--repeated")
	require.NoError(t, err)
	assert.Equal(t, "5 same\n", out)
}

func TestUnique(t *testing.T) {
	out, _, err := runCmd(t, "a\nb\nb\nc\n", "-u")
	require.NoError(t, err)
	assert.Equal(t, "a\nc\n", out)
}

func TestModeLastFlagWins(t *testing.T) {
	input := "a\nb\nb\nc\n"

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-d", "-u"}, "a\nc\n"},
		{[]string{"-u", "-d"}, "b\n"},
		{[]string{"-du"}, "a\nc\n"},
		{[]string{"-u", "-c", "--repeated"}, "2 b\n"},
		{[]string{"-d", "--repeated=false"}, "a\nb\nc\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := runCmd(t, input, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEmptyInput(t *testing.T) {
	out, _, err := runCmd(t, "")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)

	out, _, err = runCmd(t, "x\n", "-d")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestZeroTerminated(t *testing.T) {
	out, _, err := runCmd(t, "a\x00a\x00b", "-z", "-c")
	require.NoError(t, err)
	assert.Equal(t, "2 a\x001 b\x00", out)
}

func TestOutputFile(t *testing.T) {
	in := writeInput(t, "x\nx\ny\n")
	outPath := filepath.Join(t.TempDir(), "out.txt")

	stdout, _, err := runCmd(t, "", in, outPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "x\ny\n", string(data))
}

func TestOutputFileSameAsInput(t *testing.T) {
	path := writeInput(t, "x\nx\nx\ny\n")

	_, _, err := runCmd(t, "", "-c", path, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "3 x\n1 y\n", string(data))
}

func TestStdoutDash(t *testing.T) {
	in := writeInput(t, "x\nx\n")
	out, _, err := runCmd(t, "", in, "-")
	require.NoError(t, err)
	assert.Equal(t, "x\n", out)
}

func TestMissingInput(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")

	_, _, err := runCmd(t, "", filepath.Join(dir, "missing.txt"), outPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr), "output created despite open failure")
}

func TestRejectedArguments(t *testing.T) {
	tests := map[string][]string{
		"unknown shorthand": {"-x"},
		"unknown long":      {"--skip-fields=1"},
		"too many paths":    {"-", "-", "extra"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := runCmd(t, "a\n", args...)
			require.Error(t, err)
		})
	}
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, err := runCmd(t, "a\na\n", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"finished"`)
	assert.Contains(t, stderr, `"msg":"input exhausted"`)

	_, stderr, err = runCmd(t, "a\na\n")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestProcessDoesNotCommitOnReadError(t *testing.T) {
	logger = zap.NewNop()
	boom := errors.New("boom")
	out := tempfile.Mock(0)

	err := process(context.Background(), iotest.ErrReader(boom), out, &uniq.Config{})
	require.ErrorIs(t, err, boom)
	require.NoError(t, out.Close())
	assert.False(t, out.Committed())
}

func TestProcessCommits(t *testing.T) {
	logger = zap.NewNop()
	out := tempfile.Mock(0)

	err := process(context.Background(), strings.NewReader("a\na\nb"), out, &uniq.Config{Count: true})
	require.NoError(t, err)
	assert.True(t, out.Committed())
	assert.Equal(t, "2 a\n1 b\n", string(out.Bytes()))
}

func TestExecuteExitCodes(t *testing.T) {
	var stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("a\n"))
	cmd.SetOut(&bytes.Buffer{})
	assert.Equal(t, 0, execute(context.Background(), cmd, []string{}, &stderr))
	assert.Empty(t, stderr.String())

	cmd = newRootCmd()
	assert.Equal(t, 1, execute(context.Background(), cmd, []string{filepath.Join(t.TempDir(), "missing")}, &stderr))
	assert.Contains(t, stderr.String(), "uniq: open input")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stderr.Reset()
	cmd = newRootCmd()
	cmd.SetIn(strings.NewReader("a\n"))
	cmd.SetOut(&bytes.Buffer{})
	assert.Equal(t, 130, execute(ctx, cmd, []string{}, &stderr))
}

// endlessReader yields the same line forever.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	const line = "same\n"
	n := 0
	for n+len(line) <= len(p) {
		n += copy(p[n:], line)
	}
	return n, nil
}

// executeAsync runs the root command on stdin in the background and returns its exit code channel.
func executeAsync(ctx context.Context, stdin io.Reader) <-chan int {
	logger = zap.NewNop()
	cmd := newRootCmd()
	cmd.SetIn(stdin)
	cmd.SetOut(&bytes.Buffer{})
	code := make(chan int, 1)
	go func() {
		code <- execute(ctx, cmd, []string{}, io.Discard)
	}()
	return code
}

func TestInterruptBlockedRead(t *testing.T) {
	pr, pw := io.Pipe() // never written
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	code := executeAsync(ctx, pr)
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case c := <-code:
		assert.Equal(t, 130, c)
	case <-time.After(5 * time.Second):
		t.Fatal("interrupt did not stop a read blocked on stdin")
	}
}

func TestInterruptLongRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	code := executeAsync(ctx, endlessReader{})
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case c := <-code:
		assert.Equal(t, 130, c)
	case <-time.After(5 * time.Second):
		t.Fatal("interrupt did not stop a run that never ends")
	}
}

func TestProcessInterruptDoesNotCommit(t *testing.T) {
	logger = zap.NewNop()
	out := tempfile.Mock(0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := process(ctx, endlessReader{}, out, &uniq.Config{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, out.Close())
	assert.False(t, out.Committed())
}

func TestExecuteBrokenPipeIsError(t *testing.T) {
	var stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("a\nb\n"))
	cmd.SetOut(failingWriter{io.ErrClosedPipe})
	assert.Equal(t, 1, execute(context.Background(), cmd, []string{}, &stderr))
	assert.Contains(t, stderr.String(), io.ErrClosedPipe.Error())
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestStdoutSinkCloseDropsOnlyUnflushedTail(t *testing.T) {
	var stdout bytes.Buffer
	out, err := openOutput(stdioName, &stdout)
	require.NoError(t, err)

	line := strings.Repeat("x", 49) + "\n"
	for i := 0; i < 100; i++ {
		_, err := out.WriteString(line)
		require.NoError(t, err)
	}
	require.NoError(t, out.Close())
	// full 4 KiB blocks were flushed while writing; only the remainder is dropped
	assert.Equal(t, 4096, stdout.Len())
	assert.Equal(t, strings.Repeat(line, 100)[:4096], stdout.String())
}
