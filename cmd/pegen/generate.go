package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ava12/pegen/codegen"
	"github.com/ava12/pegen/compiler"
	"github.com/ava12/pegen/internal/watch"
	"github.com/ava12/pegen/langdef"
)

type generateCommandParams struct {
	output  string
	pkg     string
	header  string
	diff    bool
	fail    bool
	watch   bool
	root    *rootCommandParams
	stdout  io.Writer
	changed bool
}

func newGenerateCommand(root *rootCommandParams) *cobra.Command {
	params := &generateCommandParams{root: root}
	cmd := &cobra.Command{
		Use:   "generate [flags] <grammar-file>",
		Short: "Generate Go parser from grammar document",
		Long: `Generate Go parser from grammar document.

Output file defaults to grammar file name with .go extension,
package name defaults to the name of output file directory.

If the '-d' option is supplied, the difference between existing output file and
generated source is printed instead of writing output file. If the '--fail' option
is supplied too, exit code is 3 when there is any difference.

If the '-w' option is supplied, the output file is regenerated every time
the grammar file changes until the process is interrupted.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.stdout = cmd.OutOrStdout()
			if params.fail && !params.diff {
				return usageError("--fail requires --diff")
			}
			if params.watch && params.diff {
				return usageError("--watch cannot be combined with --diff")
			}
			if params.watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return params.watchFile(ctx, args[0])
			}

			if e := params.generate(args[0]); e != nil {
				return e
			}
			if params.diff && params.fail && params.changed {
				return &exitCodeError{exitDiff, errSilent}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&params.output, "output", "o", "", "set output file name")
	cmd.Flags().StringVarP(&params.pkg, "package", "p", "", "set Go package name")
	cmd.Flags().StringVar(&params.header, "header", compiler.DefaultHeader, "set comment placed at the top of generated file")
	cmd.Flags().BoolVarP(&params.diff, "diff", "d", false, "only display a diff against existing output file")
	cmd.Flags().BoolVar(&params.fail, "fail", false, "exit with code 3 if --diff finds a difference")
	cmd.Flags().BoolVarP(&params.watch, "watch", "w", false, "regenerate output file on grammar file change")
	return cmd
}

func (p *generateCommandParams) logger() logrus.FieldLogger {
	if p.root.logger == nil {
		return logrus.StandardLogger()
	}
	return p.root.logger
}

func outputName(input string) string {
	ext := filepath.Ext(input)
	return input[:len(input)-len(ext)] + ".go"
}

func packageName(output string) (string, error) {
	dir, e := filepath.Abs(output)
	if e != nil {
		return "", e
	}
	name := filepath.Base(filepath.Dir(dir))
	if !codegen.IsIdent(name) {
		return compiler.DefaultPackage, nil
	}
	return name, nil
}

// generate converts grammar file and writes output file or displays a diff.
func (p *generateCommandParams) generate(input string) error {
	output := p.output
	if output == "" {
		output = outputName(input)
	}
	pkg := p.pkg
	if pkg == "" {
		var e error
		pkg, e = packageName(output)
		if e != nil {
			return e
		}
	}

	g, e := langdef.ParseFile(input)
	if e != nil {
		return e
	}
	src, e := compiler.Compile(g,
		compiler.PackageName(pkg),
		compiler.Header(p.header),
		compiler.Logger(p.logger().WithField("grammar", input)),
	)
	if e != nil {
		return e
	}

	if p.diff {
		old, e := os.ReadFile(output)
		if e != nil && !errors.Is(e, fs.ErrNotExist) {
			return e
		}
		p.changed = !bytes.Equal(old, src)
		if p.changed {
			fmt.Fprintf(p.stdout, "--- %s\n+++ %s (generated)\n", output, output)
			io.WriteString(p.stdout, lineDiff(string(old), string(src)))
		}
		return nil
	}

	if e = os.WriteFile(output, src, 0o644); e != nil {
		return e
	}
	p.logger().WithFields(logrus.Fields{"grammar": input, "output": output}).Info("parser generated")
	return nil
}

// watchFile generates output file and regenerates it on every grammar change until ctx is done.
func (p *generateCommandParams) watchFile(ctx context.Context, input string) error {
	logger := p.logger()
	if e := p.generate(input); e != nil {
		logger.WithError(e).WithField("grammar", input).Error("generation failed")
	}
	return watch.Run(ctx, []string{input}, logger, func(string) error {
		return p.generate(input)
	})
}

// lineDiff lists lines of a and b prefixed with "-" (only in a), "+" (only in b), or " " (both).
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ac, bc, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ac, bc, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}
	return sb.String()
}
