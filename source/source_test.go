package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ava12/pegen"
	"github.com/ava12/pegen/internal/test"
)

type result struct {
	offset, line, col int
}

func TestSourceLineCol(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 1, 1},
			{100, 1, 1},
			{-1, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{100, 2, 1},
		},
		"0\n2\n4\n6789abcde\ng\ni\n": {
			{4, 3, 1},
			{5, 3, 2},
			{6, 4, 1},
			{7, 4, 2},
			{14, 4, 9},
			{19, 6, 2},
			{20, 7, 1},
			{9, 4, 4},
			{5, 3, 2},
		},
		"яя\nя": {
			{2, 1, 2},
			{4, 1, 3},
			{5, 2, 1},
			{7, 2, 2},
		},
	}

	for text, results := range samples {
		src := New("", []byte(text))
		for _, res := range results {
			l, c := src.LineCol(res.offset)
			if l != res.line || c != res.col {
				t.Errorf("sample %q: expected %v, got line: %d, col: %d", text, res, l, c)
			}
		}
	}
}

func TestSourceOffset(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{0, 1, 2},
			{0, 2, 1},
		},
		"\n": {
			{0, 1, 1},
			{0, 1, 2},
			{1, 2, 1},
			{1, 2, 2},
			{1, 3, 1},
		},
		"hello\nworld\n": {
			{0, 1, 1},
			{1, 1, 2},
			{5, 1, 10},
			{6, 2, 1},
			{7, 2, 2},
			{11, 2, 10},
			{12, 3, 1},
			{12, 4, 1},
		},
		"яя\nя": {
			{2, 1, 2},
			{4, 1, 3},
			{7, 2, 2},
		},
	}

	for text, results := range samples {
		src := New("", []byte(text))
		for _, res := range results {
			offset := src.Offset(res.line, res.col)
			if offset != res.offset {
				t.Errorf("sample %q: expected %v, got offset: %d", text, res, offset)
			}
		}
	}
}

func TestSourceLine(t *testing.T) {
	src := New("doc", []byte("first\r\nsecond\n\nlast"))
	test.ExpectInt(t, 4, src.LineCount())
	test.ExpectString(t, "first", src.Line(1))
	test.ExpectString(t, "second", src.Line(2))
	test.ExpectString(t, "", src.Line(3))
	test.ExpectString(t, "last", src.Line(4))
	test.ExpectString(t, "", src.Line(5))
	test.ExpectString(t, "", src.Line(0))
}

func TestPos(t *testing.T) {
	src := New("doc.yaml", []byte("a: 1\nbb: 2\n"))
	p := src.At(2, 2)
	test.ExpectString(t, "doc.yaml", p.SourceName())
	test.ExpectInt(t, 6, p.Offset())
	test.Assert(t, p.Source() == src, "wrong source")

	var sp pegen.SourcePos = p
	e := pegen.FormatErrorPos(sp, 1, "bad value")
	test.ExpectString(t, "bad value in doc.yaml at line 2 col 2", e.Error())

	test.ExpectString(t, "", Pos{}.SourceName())
	test.ExpectInt(t, 0, Pos{}.Offset())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.yaml")
	test.ExpectNoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o644))

	src, e := ReadFile(path)
	test.ExpectNoError(t, e)
	test.ExpectString(t, path, src.Name())
	test.ExpectInt(t, 10, src.Len())
	test.ExpectString(t, "rules: []\n", string(src.Content()))

	_, e = ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	test.Assert(t, e != nil, "expecting error")
}
