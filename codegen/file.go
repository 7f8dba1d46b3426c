package codegen

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"regexp"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

// IsIdent reports whether s is a valid Go identifier (ASCII only).
func IsIdent(s string) bool {
	return identRe.MatchString(s) && token.Lookup(s) == token.IDENT
}

// Import is a Go import declaration, Name is either empty, an alias, "." or "_".
type Import struct {
	Name, Path string
}

func (imp Import) validate() error {
	if imp.Path == "" || strings.ContainsAny(imp.Path, "\"`\\\n") {
		return importError(imp.Name, imp.Path)
	}
	if imp.Name != "" && imp.Name != "." && imp.Name != "_" && !IsIdent(imp.Name) {
		return importError(imp.Name, imp.Path)
	}
	return nil
}

// Param is a function parameter.
type Param struct {
	Name string
	Type Fragment
}

// Func is a function declaration.
type Func struct {
	// Doc contains comment text without comment markers, may be empty.
	Doc     string
	Name    string
	Params  []Param
	Results []Fragment
	Body    Fragment
}

// Fragment returns declaration source.
func (fn Func) Fragment() Fragment {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, line := range strings.Split(strings.TrimSpace(fn.Doc), "\n") {
		if line != "" {
			w.Writelnf("// %s", line)
		}
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name + " " + string(p.Type)
	}
	w.Writef("func %s(%s)", fn.Name, strings.Join(params, ", "))

	switch len(fn.Results) {
	case 0:
	case 1:
		w.Writef(" %s", fn.Results[0])
	default:
		results := make([]string, len(fn.Results))
		for i, r := range fn.Results {
			results[i] = string(r)
		}
		w.Writef(" (%s)", strings.Join(results, ", "))
	}

	w.Writeln(" {")
	w.Writeln(strings.TrimRight(string(fn.Body), "\n"))
	w.Writeln("}")
	return Fragment(buf.String())
}

// File is a generated Go source file.
type File struct {
	// Header is a comment placed before package clause.
	Header      string
	Package     string
	imports     []Import
	autoImports []string
	decls       []Fragment
}

// NewFile creates an empty file.
func NewFile(pkg string) *File {
	return &File{Package: pkg}
}

// AddImport adds import declaration, duplicates are merged when file source is built.
func (f *File) AddImport(imp Import) error {
	if e := imp.validate(); e != nil {
		return e
	}
	f.imports = append(f.imports, imp)
	return nil
}

// AddAutoImport adds import declaration that is removed from file source if nothing uses it.
func (f *File) AddAutoImport(path string) error {
	if e := (Import{Path: path}).validate(); e != nil {
		return e
	}
	f.autoImports = append(f.autoImports, path)
	return nil
}

// Imports returns import declarations in order of addition.
func (f *File) Imports() []Import {
	res := make([]Import, len(f.imports))
	copy(res, f.imports)
	return res
}

// AddDecl adds top-level declarations.
func (f *File) AddDecl(d Fragment) {
	if strings.TrimSpace(string(d)) != "" {
		f.decls = append(f.decls, d)
	}
}

// AddFunc adds function declaration.
func (f *File) AddFunc(fn Func) {
	f.AddDecl(fn.Fragment())
}

// Source returns formatted file content.
func (f *File) Source() ([]byte, error) {
	if !IsIdent(f.Package) {
		return nil, syntaxError(errInvalidPackage(f.Package))
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, line := range strings.Split(strings.TrimSpace(f.Header), "\n") {
		if line != "" {
			w.Writelnf("// %s", line)
		}
	}
	if f.Header != "" {
		w.Writeln("")
	}
	w.Writelnf("package %s", f.Package)
	for _, d := range f.decls {
		w.Writeln("")
		w.Writeln(strings.TrimRight(string(d), "\n"))
	}
	if e := w.Err(); e != nil {
		return nil, syntaxError(e)
	}

	fset := token.NewFileSet()
	file, e := parser.ParseFile(fset, f.Package+".go", buf.Bytes(), parser.ParseComments)
	if e != nil {
		return nil, syntaxError(e)
	}

	for _, imp := range f.imports {
		astutil.AddNamedImport(fset, file, imp.Name, imp.Path)
	}
	for _, path := range f.autoImports {
		astutil.AddImport(fset, file, path)
		if !astutil.UsesImport(file, path) {
			astutil.DeleteImport(fset, file, path)
		}
	}
	ast.SortImports(fset, file)

	buf.Reset()
	if e = format.Node(&buf, fset, file); e != nil {
		return nil, syntaxError(e)
	}

	res, e := format.Source(buf.Bytes())
	if e != nil {
		return nil, syntaxError(e)
	}
	return res, nil
}

type errInvalidPackage string

func (e errInvalidPackage) Error() string {
	return "invalid package name " + string(e)
}
