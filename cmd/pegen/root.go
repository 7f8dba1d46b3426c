package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ava12/pegen/internal/env"
	"github.com/ava12/pegen/internal/logging"
)

const (
	exitOK = iota
	exitError
	exitUsage
	exitDiff
)

// exitCodeError carries process exit code.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}

func usageError(format string, params ...any) error {
	return &exitCodeError{exitUsage, fmt.Errorf(format, params...)}
}

type rootCommandParams struct {
	logLevel  string
	logFormat string
	logger    *logrus.Logger
}

func (p *rootCommandParams) setup(cmd *cobra.Command) error {
	if e := env.ApplyEnvironment(cmd.Root()); e != nil {
		return &exitCodeError{exitUsage, e}
	}
	if cmd.HasParent() {
		if e := env.ApplyEnvironment(cmd); e != nil {
			return &exitCodeError{exitUsage, e}
		}
	}

	logger, e := logging.New(cmd.ErrOrStderr(), p.logLevel, p.logFormat)
	if e != nil {
		return &exitCodeError{exitUsage, e}
	}
	p.logger = logger
	return nil
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	params := &rootCommandParams{}
	root := &cobra.Command{
		Use:   "pegen",
		Short: "PEG parser generator",
		Long: `pegen converts parsing expression grammar documents (YAML or JSON)
to Go source files containing parser functions.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return params.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, e error) error {
		return &exitCodeError{exitUsage, e}
	})

	root.PersistentFlags().StringVar(&params.logLevel, "log-level", "info", "set log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&params.logFormat, "log-format", "text", "set log format: "+strings.Join(logging.Formats, ", "))

	root.AddCommand(
		newGenerateCommand(params),
		newCheckCommand(params),
		newVersionCommand(),
	)
	return root
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s expects %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError("%s expects at least %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// run executes command line and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	e := root.Execute()
	if e == nil {
		return exitOK
	}

	var ce *exitCodeError
	if errors.As(e, &ce) {
		if ce.code == exitUsage {
			fmt.Fprintln(stderr, "Error:", ce.err)
			fmt.Fprintln(stderr, "Run 'pegen --help' for usage.")
			return ce.code
		}
		if ce.err != errSilent {
			fmt.Fprintln(stderr, ce.err)
		}
		return ce.code
	}

	if strings.HasPrefix(e.Error(), "unknown command") {
		fmt.Fprintln(stderr, "Error:", e)
		return exitUsage
	}
	fmt.Fprintln(stderr, e)
	return exitError
}

// errSilent means the problem is already reported.
var errSilent = errors.New("")
