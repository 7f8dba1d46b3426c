package langdef

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ava12/pegen"
	"github.com/ava12/pegen/source"
)

const (
	UnknownKeyError = pegen.LangDefErrors + iota
	WrongValueError
	MissingValueError
	DuplicateRuleError
	SyntaxError
)

func unknownKeyError(pos source.Pos, key string) *pegen.Error {
	return pegen.FormatErrorPos(pos, UnknownKeyError, "unknown key %q", key)
}

func wrongValueError(pos source.Pos, what string) *pegen.Error {
	return pegen.FormatErrorPos(pos, WrongValueError, "expecting %s", what)
}

func missingValueError(pos source.Pos, key string) *pegen.Error {
	return pegen.FormatErrorPos(pos, MissingValueError, "missing %q key", key)
}

func duplicateRuleError(pos source.Pos, name string, line int) *pegen.Error {
	return pegen.FormatErrorPos(pos, DuplicateRuleError, "rule %q already defined at line %d", name, line)
}

var yamlLineRe = regexp.MustCompile(`^yaml: line (\d+): `)

func syntaxError(src *source.Source, e error) *pegen.Error {
	msg := e.Error()
	if m := yamlLineRe.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return pegen.FormatErrorPos(src.At(line, 1), SyntaxError, "incorrect document: %s", msg[len(m[0]):])
	}
	return pegen.NewError(SyntaxError, "incorrect document: "+strings.TrimPrefix(msg, "yaml: "), src.Name(), 0, 0)
}

// formatErrors lists one error per line.
func formatErrors(es []error) string {
	if len(es) == 1 {
		return es[0].Error()
	}

	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.Error()
	}
	return fmt.Sprintf("%d errors:\n%s", len(es), strings.Join(lines, "\n"))
}

// Errors returns list of errors contained in e.
func Errors(e error) []error {
	if e == nil {
		return nil
	}
	if me, is := e.(*multierror.Error); is {
		return me.WrappedErrors()
	}
	return []error{e}
}
