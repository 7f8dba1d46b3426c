package codegen

import (
	"bytes"
	"errors"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ava12/pegen/internal/test"
)

func TestEmbedExpr(t *testing.T) {
	samples := []struct {
		src, expected string
	}{
		{"1+2", "1 + 2"},
		{"  foo( a,b )", "foo(a, b)"},
		{"[]int{1,2}", "[]int{1, 2}"},
	}
	for _, s := range samples {
		res, e := EmbedExpr(s.src)
		test.ExpectNoError(t, e)
		test.ExpectString(t, s.expected, res.String())
	}
}

func TestEmbedExprError(t *testing.T) {
	samples := []string{
		"",
		"1 +",
		"foo(",
		"x := 1",
		"a; b",
	}
	for _, src := range samples {
		_, e := EmbedExpr(src)
		test.ExpectErrorCode(t, HostCodeError, e)
	}
}

func TestEmbedType(t *testing.T) {
	samples := []struct {
		src, expected string
	}{
		{"int", "int"},
		{"struct{}", "struct{}"},
		{"[] *ast.Node", "[]*ast.Node"},
		{"map[string] []int", "map[string][]int"},
		{"func(int)bool", "func(int) bool"},
		{"List[int]", "List[int]"},
		{"Pair[string,int]", "Pair[string, int]"},
		{"(int)", "(int)"},
		{"chan<- int", "chan<- int"},
		{"interface{}", "interface{}"},
	}
	for _, s := range samples {
		res, e := EmbedType(s.src)
		test.ExpectNoError(t, e)
		test.ExpectString(t, s.expected, res.String())
	}
}

func TestEmbedTypeError(t *testing.T) {
	samples := []string{
		"",
		"1",
		"a + b",
		"foo()",
		"*1",
		"[]",
		"a.b.c",
		`"int"`,
	}
	for _, src := range samples {
		_, e := EmbedType(src)
		test.ExpectErrorCode(t, HostTypeError, e)
	}
}

func TestEmbedDecls(t *testing.T) {
	src := `
import (
	"strconv"
	str "strings"
)

func atoi(s string) int { n, _ := strconv.Atoi(s); return n }

var upper = str.ToUpper
`
	res, imports, e := EmbedDecls(src)
	test.ExpectNoError(t, e)

	expectedImports := []Import{{Path: "strconv"}, {Name: "str", Path: "strings"}}
	if diff := cmp.Diff(expectedImports, imports); diff != "" {
		t.Errorf("unexpected imports (-want +got):\n%s", diff)
	}

	got := res.String()
	test.Assert(t, !strings.Contains(got, "import"), "imports not removed: %s", got)
	test.Assert(t, !strings.Contains(got, "package"), "package clause not removed: %s", got)
	test.Assert(t, strings.Contains(got, "func atoi(s string) int {"), "function not found: %s", got)
	test.Assert(t, strings.Contains(got, "var upper = str.ToUpper"), "variable not found: %s", got)
}

func TestEmbedDeclsEmpty(t *testing.T) {
	res, imports, e := EmbedDecls(" \n\t")
	test.ExpectNoError(t, e)
	test.ExpectString(t, "", res.String())
	test.ExpectInt(t, 0, len(imports))
}

func TestEmbedDeclsError(t *testing.T) {
	samples := []string{
		"func {",
		"x := 1",
		"return 1",
	}
	for _, src := range samples {
		_, _, e := EmbedDecls(src)
		test.ExpectErrorCode(t, HostDeclsError, e)
	}
}

func TestTemplate(t *testing.T) {
	tpl := NewTemplate("test", "{{.Name}}({{.Arg}})")
	res, e := tpl.Expand(struct{ Name, Arg string }{"foo", "1"})
	test.ExpectNoError(t, e)
	test.ExpectString(t, "foo(1)", res.String())

	_, e = tpl.Expand(struct{ Name string }{"foo"})
	test.ExpectErrorCode(t, TemplateError, e)
}

func TestQuote(t *testing.T) {
	test.ExpectString(t, `"a\"b\n"`, Quote("a\"b\n").String())
	test.ExpectString(t, `'\''`, QuoteRune('\'').String())
	test.ExpectString(t, `'я'`, QuoteRune('я').String())
}

func TestFuncFragment(t *testing.T) {
	fn := Func{
		Doc:     "Foo does nothing.",
		Name:    "Foo",
		Params:  []Param{{"a", "int"}, {"b", "string"}},
		Results: []Fragment{"int", "error"},
		Body:    "return a, nil\n",
	}
	expected := `// Foo does nothing.
func Foo(a int, b string) (int, error) {
return a, nil
}
`
	test.ExpectString(t, expected, fn.Fragment().String())

	fn = Func{Name: "bar", Results: []Fragment{"bool"}, Body: "return true"}
	test.ExpectString(t, "func bar() bool {\nreturn true\n}\n", fn.Fragment().String())
}

func TestFileSource(t *testing.T) {
	f := NewFile("demo")
	f.Header = "Generated file."
	test.ExpectNoError(t, f.AddImport(Import{Path: "strconv"}))
	test.ExpectNoError(t, f.AddImport(Import{Path: "strconv"}))
	test.ExpectNoError(t, f.AddImport(Import{Name: "str", Path: "strings"}))
	test.ExpectNoError(t, f.AddAutoImport("fmt"))
	test.ExpectNoError(t, f.AddAutoImport("bytes"))
	f.AddFunc(Func{
		Name:    "show",
		Params:  []Param{{"n", "int"}},
		Results: []Fragment{"string"},
		Body:    "return fmt.Sprint(strconv.Itoa(n), str.ToUpper(\"x\"))",
	})

	src, e := f.Source()
	test.ExpectNoError(t, e)

	formatted, e := format.Source(src)
	test.ExpectNoError(t, e)
	test.ExpectString(t, string(formatted), string(src))
	test.Assert(t, strings.HasPrefix(string(src), "// Generated file.\n\npackage demo\n"), "unexpected file start:\n%s", src)

	parsed, e := parser.ParseFile(token.NewFileSet(), "demo.go", src, parser.ImportsOnly)
	test.ExpectNoError(t, e)
	var imports []Import
	for _, spec := range parsed.Imports {
		imp := Import{Path: strings.Trim(spec.Path.Value, `"`)}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	expectedImports := []Import{{Path: "fmt"}, {Path: "strconv"}, {Name: "str", Path: "strings"}}
	if diff := cmp.Diff(expectedImports, imports); diff != "" {
		t.Errorf("unexpected imports (-want +got):\n%s", diff)
	}
	test.Assert(t, strings.Contains(string(src), "func show(n int) string {"), "function not found:\n%s", src)
	test.ExpectInt(t, 3, len(f.Imports()))
}

func TestFileSourceError(t *testing.T) {
	f := NewFile("1abc")
	_, e := f.Source()
	test.ExpectErrorCode(t, SyntaxError, e)

	f = NewFile("demo")
	f.AddDecl("func broken( {")
	_, e = f.Source()
	test.ExpectErrorCode(t, SyntaxError, e)

	f = NewFile("demo")
	test.ExpectErrorCode(t, ImportError, f.AddImport(Import{Path: ""}))
	test.ExpectErrorCode(t, ImportError, f.AddImport(Import{Name: "a-b", Path: "fmt"}))
	test.ExpectErrorCode(t, ImportError, f.AddAutoImport("bad\"path"))
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Writef("%d-", 1)
	w.Writelnf("%s", "a")
	w.Writeln("100%")
	test.ExpectNoError(t, w.Err())
	test.ExpectString(t, "1-a\n100%\n", buf.String())

	w = NewWriter(failingWriter{})
	w.Writeln("a")
	w.Writeln("b")
	test.Assert(t, errors.Is(w.Err(), errWrite), "expecting write error, got %v", w.Err())
}
