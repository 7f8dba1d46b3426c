package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava12/pegen"
	"github.com/ava12/pegen/compiler"
	"github.com/ava12/pegen/langdef"
	"github.com/ava12/pegen/source"
)

type checkCommandParams struct {
	describe bool
	root     *rootCommandParams
}

func newCheckCommand(root *rootCommandParams) *cobra.Command {
	params := &checkCommandParams{root: root}
	cmd := &cobra.Command{
		Use:   "check [flags] <grammar-file>...",
		Short: "Check grammar documents",
		Long: `Check grammar documents.

Each grammar document is decoded and compiled, nothing is written.
Every problem found is reported along with the offending document line.
If the '--describe' option is supplied, rules of each correct grammar are listed.`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if !params.check(cmd.OutOrStdout(), cmd.ErrOrStderr(), path) {
					failed++
				}
			}
			if failed > 0 {
				return &exitCodeError{exitError, fmt.Errorf("%d of %d grammar file(s) failed check", failed, len(args))}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&params.describe, "describe", false, "list rules of correct grammars")
	return cmd
}

func (p *checkCommandParams) check(stdout, stderr io.Writer, path string) bool {
	src, e := source.ReadFile(path)
	if e != nil {
		fmt.Fprintln(stderr, e)
		return false
	}

	g, e := langdef.Parse(src)
	if e == nil {
		opts := []compiler.Option{}
		if p.root.logger != nil {
			opts = append(opts, compiler.Logger(p.root.logger.WithField("grammar", path)))
		}
		_, e = compiler.Compile(g, opts...)
	}
	if e != nil {
		for _, item := range langdef.Errors(e) {
			showError(stderr, src, item)
		}
		return false
	}

	if p.describe {
		fmt.Fprintf(stdout, "%s:\n%s", path, compiler.Describe(g))
	}
	return true
}

// showError writes error message followed by source line and column marker if error has position.
func showError(w io.Writer, src *source.Source, e error) {
	fmt.Fprintln(w, e)
	var pe *pegen.Error
	if !errors.As(e, &pe) || pe.Line <= 0 || pe.SourceName != src.Name() {
		return
	}

	line := src.Line(pe.Line)
	fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(line, "\t", " "))
	if pe.Col > 0 {
		fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", pe.Col-1))
	}
}
