package support

import (
	"strings"
	"unicode/utf8"
)

func sliceEq(input string, pos int, m string) (int, struct{}, bool) {
	l := len(m)
	if len(input) >= pos+l && input[pos:pos+l] == m {
		return pos + l, struct{}{}, true
	}
	return pos, struct{}{}, false
}

func anyChar(input string, pos int) (int, struct{}, bool) {
	if len(input) > pos {
		_, size := utf8.DecodeRuneInString(input[pos:])
		return pos + size, struct{}{}, true
	}
	return pos, struct{}{}, false
}

func posToLine(input string, pos int) int {
	if pos > len(input) {
		pos = len(input)
	}
	if pos < 0 {
		pos = 0
	}
	return strings.Count(input[:pos], "\n") + 1
}
