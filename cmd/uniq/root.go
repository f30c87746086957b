package main

import (
	"io"
	"strconv"

	"github.com/lanrat/uniq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger, replaced in PersistentPreRunE once --verbose is known
var logger = zap.NewNop()

type options struct {
	config  uniq.Config
	verbose bool
}

// newRootCmd builds the uniq command. Each call returns a command with fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "uniq [flags] [input [output]]",
		Short: "Report or omit repeated lines",
		Long: `Filter adjacent matching lines from input, writing to output.

With no input, or when input is -, read standard input.
With no output, or when output is -, write standard output.
An output file is only replaced once all input has been processed,
so input and output may name the same file.

Flags must come before input and output. If both -d and -u are
given, the last one wins.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(cmd.ErrOrStderr(), opts.verbose)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUniq(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.BoolVarP(&opts.config.Count, "count", "c", false, "prefix lines by the number of occurrences")
	modeFlag(cmd, &opts.config.Mode, uniq.Repeated, "repeated", "d", "only print duplicate lines, one for each group")
	modeFlag(cmd, &opts.config.Mode, uniq.Unique, "unique", "u", "only print unique lines")
	flags.BoolVarP(&opts.config.ZeroTerminated, "zero-terminated", "z", false, "line delimiter is NUL, not newline")
	flags.BoolVar(&opts.verbose, "verbose", false, "log debug information to stderr")
	return cmd
}

// newLogger returns a production JSON logger on w, at debug level when verbose and warn otherwise.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core).Named("uniq")
}

// modeValue is a boolean flag that selects a Mode when set.
// Several modeValues share one Mode so the last flag given wins.
type modeValue struct {
	mode *uniq.Mode
	set  uniq.Mode
}

func modeFlag(cmd *cobra.Command, mode *uniq.Mode, set uniq.Mode, name, shorthand, usage string) {
	f := cmd.Flags().VarPF(&modeValue{mode: mode, set: set}, name, shorthand, usage)
	f.NoOptDefVal = "true"
}

func (v *modeValue) String() string {
	if v.mode != nil && *v.mode == v.set {
		return "true"
	}
	return "false"
}

func (v *modeValue) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	switch {
	case on:
		*v.mode = v.set
	case *v.mode == v.set:
		*v.mode = uniq.All
	}
	return nil
}

func (v *modeValue) Type() string {
	return "bool"
}

func (v *modeValue) IsBoolFlag() bool {
	return true
}
