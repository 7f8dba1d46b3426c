// Package source holds named grammar documents and converts between byte offsets and line/column positions.
package source

import (
	"bytes"
	"os"
	"sort"
	"unicode/utf8"
)

// Source is a named document. Lines and columns are 1-based, columns count runes.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates a source, content is not copied.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	s.lineStarts = make([]int, 1, bytes.Count(content, []byte("\n"))+1)
	for i, b := range content {
		if b == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// ReadFile creates a source named after file path.
func ReadFile(path string) (*Source, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, e
	}
	return New(path, content), nil
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() []byte {
	return s.content
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCount returns the number of lines, text after the last line feed counts as a line.
func (s *Source) LineCount() int {
	return len(s.lineStarts)
}

// LineCol converts byte offset to line and column, offset is clamped to content.
func (s *Source) LineCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	} else if offset > len(s.content) {
		offset = len(s.content)
	}

	index := sort.SearchInts(s.lineStarts, offset+1) - 1
	start := s.lineStarts[index]
	return index + 1, utf8.RuneCount(s.content[start:offset]) + 1
}

// Offset converts line and column to byte offset.
// Returns 0 for non-positive line or column, columns past line end point to the line feed.
func (s *Source) Offset(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}
	if line > len(s.lineStarts) {
		return len(s.content)
	}

	res := s.lineStarts[line-1]
	for ; col > 1 && res < len(s.content) && s.content[res] != '\n'; col-- {
		_, size := utf8.DecodeRune(s.content[res:])
		res += size
	}
	return res
}

// Line returns text of given line without line feed or empty string if there is no such line.
func (s *Source) Line(line int) string {
	if line <= 0 || line > len(s.lineStarts) {
		return ""
	}

	start := s.lineStarts[line-1]
	end := len(s.content)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1
	}
	return string(bytes.TrimSuffix(s.content[start:end], []byte("\r")))
}

// At returns position in this source.
func (s *Source) At(line, col int) Pos {
	return Pos{s, line, col}
}

// Pos is a position in source, it satisfies pegen.SourcePos.
type Pos struct {
	src       *Source
	line, col int
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}

// Offset returns byte offset of position.
func (p Pos) Offset() int {
	if p.src == nil {
		return 0
	}
	return p.src.Offset(p.line, p.col)
}
