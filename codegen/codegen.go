// Package codegen builds Go source code for compiler.
//
// Generated code is assembled from fragments: template expansions, function declarations,
// and host code (Go expressions, types, and declarations written by grammar author).
// Host code never gets into generated file as raw text, it is parsed and printed
// by EmbedExpr, EmbedType, and EmbedDecls first.
package codegen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"strconv"
	"strings"
	"text/template"
)

// Fragment is a piece of Go source code.
type Fragment string

func (f Fragment) String() string {
	return string(f)
}

// Template is a named text/template producing fragments.
type Template struct {
	t *template.Template
}

// NewTemplate parses template text, panics on error.
func NewTemplate(name, text string) *Template {
	return &Template{template.Must(template.New(name).Parse(text))}
}

// Expand executes template with given data.
func (t *Template) Expand(data any) (Fragment, error) {
	var buf bytes.Buffer
	if e := t.t.Execute(&buf, data); e != nil {
		return "", templateError(t.t.Name(), e)
	}
	return Fragment(buf.String()), nil
}

// Quote returns Go string literal.
func Quote(s string) Fragment {
	return Fragment(strconv.Quote(s))
}

// QuoteRune returns Go rune literal.
func QuoteRune(r rune) Fragment {
	return Fragment(strconv.QuoteRune(r))
}

// EmbedExpr parses host code as Go expression and returns it in canonical form.
func EmbedExpr(code string) (Fragment, error) {
	fset := token.NewFileSet()
	x, e := parser.ParseExprFrom(fset, "", code, 0)
	if e != nil {
		return "", hostCodeError(code, e)
	}

	res, e := printNode(fset, x)
	if e != nil {
		return "", hostCodeError(code, e)
	}
	return res, nil
}

// EmbedType parses text as Go type and returns it in canonical form.
func EmbedType(text string) (Fragment, error) {
	fset := token.NewFileSet()
	x, e := parser.ParseExprFrom(fset, "", text, 0)
	if e != nil {
		return "", hostTypeError(text, e)
	}
	if !isType(x) {
		return "", hostTypeError(text, nil)
	}

	res, e := printNode(fset, x)
	if e != nil {
		return "", hostTypeError(text, e)
	}
	return res, nil
}

func isType(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.Ident, *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType,
		*ast.InterfaceType, *ast.StructType:
		return true
	case *ast.SelectorExpr:
		_, isIdent := x.X.(*ast.Ident)
		return isIdent
	case *ast.StarExpr:
		return isType(x.X)
	case *ast.ParenExpr:
		return isType(x.X)
	case *ast.IndexExpr:
		return isType(x.X) && isType(x.Index)
	case *ast.IndexListExpr:
		if !isType(x.X) {
			return false
		}
		for _, index := range x.Indices {
			if !isType(index) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// EmbedDecls parses host code as a list of Go top-level declarations.
// Import declarations are removed from the result and returned separately.
func EmbedDecls(text string) (Fragment, []Import, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil, nil
	}

	const pkgClause = "package p"
	fset := token.NewFileSet()
	f, e := parser.ParseFile(fset, "initializer", pkgClause+"; "+text, parser.ParseComments)
	if e != nil {
		return "", nil, hostDeclsError(e)
	}

	imports := make([]Import, 0, len(f.Imports))
	for _, spec := range f.Imports {
		imp := Import{}
		imp.Path, _ = strconv.Unquote(spec.Path.Value)
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}

	decls := f.Decls[:0]
	for _, d := range f.Decls {
		gd, isGen := d.(*ast.GenDecl)
		if !isGen || gd.Tok != token.IMPORT {
			decls = append(decls, d)
		}
	}
	f.Decls = decls
	f.Imports = nil

	var buf bytes.Buffer
	if e = format.Node(&buf, fset, f); e != nil {
		return "", nil, hostDeclsError(e)
	}

	src := strings.TrimPrefix(buf.String(), pkgClause+"\n")
	return Fragment(strings.TrimSpace(src) + "\n"), imports, nil
}

func printNode(fset *token.FileSet, node any) (Fragment, error) {
	var buf bytes.Buffer
	if e := format.Node(&buf, fset, node); e != nil {
		return "", e
	}
	return Fragment(buf.String()), nil
}

// Writer accumulates generated text, the first write error is kept and all subsequent writes are ignored.
type Writer struct {
	w io.Writer
	e error
}

// NewWriter creates new Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Writef writes formatted text.
func (w *Writer) Writef(f string, args ...any) {
	if w.e == nil {
		_, w.e = fmt.Fprintf(w.w, f, args...)
	}
}

// Writelnf writes formatted text followed by a line feed.
func (w *Writer) Writelnf(f string, args ...any) {
	w.Writef(f+"\n", args...)
}

// Writeln writes text as is followed by a line feed.
func (w *Writer) Writeln(s string) {
	if w.e == nil {
		_, w.e = fmt.Fprint(w.w, s+"\n")
	}
}

// Err returns the first write error or nil.
func (w *Writer) Err() error {
	return w.e
}
