// Package support holds runtime functions required by every generated parser.
//
// The functions are ordinary Go code tested in this package,
// compiler copies their source to each generated file:
//
//	sliceEq(input string, pos int, m string) (int, struct{}, bool)
//	anyChar(input string, pos int) (int, struct{}, bool)
//	posToLine(input string, pos int) int
//
// Matching functions return new position, value, and success flag.
// On failure the returned position is the one passed in.
package support

import (
	"bytes"
	_ "embed"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"
	"sync"
)

// Names of runtime functions as seen by generated code.
const (
	SliceEq   = "sliceEq"
	AnyChar   = "anyChar"
	PosToLine = "posToLine"
)

//go:embed primitives.go
var primitivesSource []byte

var (
	loadOnce sync.Once
	decls    string
	imports  []string
	loadErr  error
)

func load() {
	fset := token.NewFileSet()
	f, e := parser.ParseFile(fset, "primitives.go", primitivesSource, parser.ParseComments)
	if e != nil {
		loadErr = e
		return
	}

	for _, spec := range f.Imports {
		path, e := strconv.Unquote(spec.Path.Value)
		if e != nil {
			loadErr = e
			return
		}
		imports = append(imports, path)
	}

	var buf bytes.Buffer
	for _, d := range f.Decls {
		fd, isFunc := d.(*ast.FuncDecl)
		if !isFunc {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		if e = format.Node(&buf, fset, fd); e != nil {
			loadErr = e
			return
		}
	}
	buf.WriteByte('\n')
	decls = buf.String()
}

// Decls returns Go source of runtime function declarations.
func Decls() (string, error) {
	loadOnce.Do(load)
	return decls, loadErr
}

// Imports returns import paths required by runtime functions.
func Imports() ([]string, error) {
	loadOnce.Do(load)
	res := make([]string, len(imports))
	copy(res, imports)
	return res, loadErr
}
