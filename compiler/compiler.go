// Package compiler translates grammar tree to Go source.
//
// Each rule becomes a matcher function
//
//	func parse_<name>(input string, pos int) (int, T, bool)
//
// returning new position, rule value, and success flag.
// Failed matcher returns the position where the failing expression started.
// Each exported rule also gets a wrapper matching the whole input:
//
//	func <Name>(input string) (T, error)
//
// Matchers are pure functions of input and position, no memoization is done.
package compiler

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/ava12/pegen/codegen"
	"github.com/ava12/pegen/grammar"
	"github.com/ava12/pegen/support"
)

const (
	DefaultPackage = "parser"
	DefaultHeader  = "Code generated by pegen. DO NOT EDIT."
)

// Option modifies compiler settings.
type Option func(*compiler)

// PackageName sets package name of generated file.
func PackageName(name string) Option {
	return func(c *compiler) {
		c.pkg = name
	}
}

// Header sets comment placed at the top of generated file, empty string means no comment.
func Header(text string) Option {
	return func(c *compiler) {
		c.header = text
	}
}

// Logger sets logger, log entries are discarded by default.
func Logger(l logrus.FieldLogger) Option {
	return func(c *compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

type compiler struct {
	pkg       string
	header    string
	logger    logrus.FieldLogger
	grammar   *grammar.Grammar
	ruleTypes map[string]string
	reserved  map[string]bool
	nodes     int
}

func newCompiler(g *grammar.Grammar, opts []Option) *compiler {
	c := &compiler{
		pkg:       DefaultPackage,
		header:    DefaultHeader,
		logger:    discardLogger(),
		grammar:   g,
		ruleTypes: make(map[string]string, len(g.Rules)),
		reserved:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Compile returns formatted Go source implementing grammar g.
func Compile(g *grammar.Grammar, opts ...Option) ([]byte, error) {
	c := newCompiler(g, opts)
	f, e := c.compileFile()
	if e != nil {
		return nil, e
	}

	src, e := f.Source()
	if e != nil {
		return nil, e
	}

	exported := 0
	for _, r := range g.Rules {
		if r.Exported {
			exported++
		}
	}
	c.logger.WithFields(logrus.Fields{
		"rules":    len(g.Rules),
		"exported": exported,
		"bytes":    len(src),
	}).Info("grammar compiled")
	return src, nil
}

// CompileFile returns generated file ready for formatting.
func CompileFile(g *grammar.Grammar, opts ...Option) (*codegen.File, error) {
	return newCompiler(g, opts).compileFile()
}

func (c *compiler) compileFile() (*codegen.File, error) {
	if !codegen.IsIdent(c.pkg) {
		return nil, packageNameError(c.pkg)
	}

	f := codegen.NewFile(c.pkg)
	f.Header = c.header
	if e := c.addPreamble(f); e != nil {
		return nil, e
	}

	rules := c.grammar.Rules
	for _, r := range rules {
		if !codegen.IsIdent(r.Name) {
			return nil, ruleNameError(r.Name)
		}
		t, e := codegen.EmbedType(r.ValueType())
		if e != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, e)
		}
		c.ruleTypes[r.Name] = normalizeType(t.String())
		c.reserveTypeNames(t.String())
	}
	c.reserveTagTypeNames()

	for i := range rules {
		r := &rules[i]
		fn, e := c.compileRule(r)
		if e != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, e)
		}
		f.AddFunc(fn)
	}

	hasExported := false
	wrappers := make(map[string]string)
	for i := range rules {
		r := &rules[i]
		if !r.Exported {
			continue
		}
		fn, e := c.compileWrapper(r)
		if e != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, e)
		}
		if other, found := wrappers[fn.Name]; found {
			return nil, duplicateExportError(r.Name, fn.Name, other)
		}
		wrappers[fn.Name] = r.Name
		f.AddFunc(fn)
		hasExported = true
	}
	if hasExported {
		if e := f.AddAutoImport("fmt"); e != nil {
			return nil, e
		}
	}
	for _, name := range Unreachable(c.grammar) {
		c.logger.WithField("rule", name).Warn("rule is unreachable from exported rules")
	}

	return f, nil
}

func normalizeType(t string) string {
	if grammar.IsUnitType(t) {
		return unitType
	}
	return t
}

func (c *compiler) addPreamble(f *codegen.File) error {
	c.reserve("fmt")
	for _, imp := range c.grammar.Imports {
		if e := f.AddImport(codegen.Import{Name: imp.Name, Path: imp.Path}); e != nil {
			return e
		}
		c.reserve(importName(imp.Name, imp.Path))
	}

	decls, imports, e := codegen.EmbedDecls(c.grammar.Initializer)
	if e != nil {
		return e
	}
	for _, imp := range imports {
		if e = f.AddImport(imp); e != nil {
			return e
		}
		c.reserve(importName(imp.Name, imp.Path))
	}
	f.AddDecl(decls)

	primitives, e := support.Decls()
	if e != nil {
		return e
	}
	paths, e := support.Imports()
	if e != nil {
		return e
	}
	for _, path := range paths {
		if e = f.AddAutoImport(path); e != nil {
			return e
		}
		c.reserve(importName("", path))
	}
	f.AddDecl(codegen.Fragment(primitives))
	return nil
}

func (c *compiler) reserve(names ...string) {
	for _, name := range names {
		c.reserved[name] = true
	}
}

// importName returns the name an import is referred to by.
func importName(name, path string) string {
	if name != "" {
		return name
	}
	return path[strings.LastIndexByte(path, '/')+1:]
}

var typeNameRe = regexp.MustCompile(`[\p{L}_][\p{L}\p{N}_]*`)

func (c *compiler) reserveTypeNames(t string) {
	c.reserve(typeNameRe.FindAllString(t, -1)...)
}

// reserveTagTypeNames reserves names used in types of action items,
// these types appear in generated code after preceding items are bound.
func (c *compiler) reserveTagTypeNames() {
	for _, r := range c.grammar.Rules {
		grammar.Walk(r.Expr, func(x grammar.Expr) bool {
			if a, is := x.(*grammar.Action); is {
				for _, te := range a.Exprs {
					c.reserveTypeNames(te.Type)
				}
			}
			return true
		})
	}
}

const matcherPrefix = "parse_"

func matcherName(rule string) string {
	return matcherPrefix + rule
}

func exportedName(rule string) (string, bool) {
	r, size := utf8.DecodeRuneInString(rule)
	if !unicode.IsLetter(r) {
		return "", false
	}
	return string(unicode.ToUpper(r)) + rule[size:], true
}

var matcherParams = []codegen.Param{
	{Name: "input", Type: "string"},
	{Name: "pos", Type: "int"},
}

func (c *compiler) compileRule(r *grammar.Rule) (codegen.Func, error) {
	t := c.ruleTypes[r.Name]
	unit := t == unitType
	c.nodes = 0

	body, e := c.compileExpr(r.Expr, !unit, t)
	if e != nil {
		return codegen.Func{}, e
	}
	if unit {
		body, e = discard(body)
		if e != nil {
			return codegen.Func{}, e
		}
	}

	c.logger.WithFields(logrus.Fields{
		"rule":     r.Name,
		"exported": r.Exported,
		"type":     t,
		"nodes":    c.nodes,
	}).Debug("rule compiled")

	return codegen.Func{
		Name:    matcherName(r.Name),
		Params:  matcherParams,
		Results: []codegen.Fragment{"int", codegen.Fragment(t), "bool"},
		Body:    "return " + body.code,
	}, nil
}

var wrapperTemplate = codegen.NewTemplate("wrapper", `pos, value, ok := {{.Matcher}}(input, 0)
if !ok {
	return {{.Zero}}, fmt.Errorf("Error at %d", {{.PosToLine}}(input, pos))
}
if pos != len(input) {
	return {{.Zero}}, fmt.Errorf("Expected end of input at %d", {{.PosToLine}}(input, pos))
}
return value, nil`)

func (c *compiler) compileWrapper(r *grammar.Rule) (codegen.Func, error) {
	name, valid := exportedName(r.Name)
	if !valid {
		return codegen.Func{}, exportNameError(r.Name)
	}

	t := c.ruleTypes[r.Name]
	body, e := wrapperTemplate.Expand(struct {
		Matcher, Zero, PosToLine string
	}{matcherName(r.Name), zeroValue(t), support.PosToLine})
	if e != nil {
		return codegen.Func{}, e
	}

	return codegen.Func{
		Doc:     fmt.Sprintf("%s matches the whole input against %s rule.", name, r.Name),
		Name:    name,
		Params:  matcherParams[:1],
		Results: []codegen.Fragment{codegen.Fragment(t), "error"},
		Body:    body,
	}, nil
}

// Describe returns a short listing of grammar rules, one per line.
func Describe(g *grammar.Grammar) string {
	var sb strings.Builder
	for _, r := range g.Rules {
		mark := " "
		if r.Exported {
			mark = "*"
		}
		fmt.Fprintf(&sb, "%s %s %s = %s\n", mark, r.Name, r.ValueType(), r.Expr)
	}
	return sb.String()
}
