package compiler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ava12/pegen/codegen"
	"github.com/ava12/pegen/grammar"
	"github.com/ava12/pegen/support"
)

const (
	unitType  = grammar.UnitType
	unitValue = "struct{}{}"
	anyType   = "any"
)

// fragment is a Go expression list evaluating to (int, Type, bool).
type fragment struct {
	code codegen.Fragment
	typ  string
}

func (f fragment) isUnit() bool {
	return f.typ == unitType
}

var unitSuccess = fragment{"pos, " + unitValue + ", true", unitType}

func zeroValue(t string) string {
	if t == unitType {
		return unitValue
	}
	return "*new(" + t + ")"
}

var (
	closureTemplate = codegen.NewTemplate("closure", `func() (int, {{.Type}}, bool) {
{{.Body}}
}()`)

	matchAndThenTemplate = codegen.NewTemplate("matchAndThen", `{
	pos, {{.Name}}, ok := {{.Expr}}
	if !ok {
		return pos, {{.Fail}}, false
	}
{{- if .Bind}}
	_ = {{.Name}}
{{- end}}
{{.Then}}
}`)

	discardTemplate = codegen.NewTemplate("discard", `func() (int, struct{}, bool) {
	pos, _, ok := {{.}}
	return pos, struct{}{}, ok
}()`)

	charSetTemplate = codegen.NewTemplate("charSet", `func() (int, struct{}, bool) {
	if pos >= len(input) {
		return pos, struct{}{}, false
	}
	{{.Char}}, size := utf8.DecodeRuneInString(input[pos:])
	if {{.Cond}} {
		return {{.Member}}
	}
	return {{.Other}}
}()`)

	optionalTemplate = codegen.NewTemplate("optional", `func() (int, {{.Type}}, bool) {
	if newPos, {{.Value}}, ok := {{.Expr}}; ok {
		return newPos, {{.Some}}, true
	}
	return pos, {{.None}}, true
}()`)

	repeatTemplate = codegen.NewTemplate("repeat", `func() (int, {{.Type}}, bool) {
	repeatPos := pos
{{- if .Collect}}
	var repeatValue {{.Type}}
{{- else if .Count}}
	repeatCount := 0
{{- end}}
	for {
		pos := repeatPos
{{- if .Sep}}
		if {{.Counter}} > 0 {
			sepPos, _, ok := {{.Sep}}
			if !ok {
				break
			}
			pos = sepPos
		}
{{- end}}
		stepPos, {{if .Collect}}value{{else}}_{{end}}, ok := {{.Expr}}
		if !ok {
			break
		}
		repeatPos = stepPos
{{- if .Collect}}
		repeatValue = append(repeatValue, value)
{{- else if .Count}}
		repeatCount++
{{- end}}
	}
{{- if .Min}}
	if {{.Counter}} < {{.Min}} {
		return repeatPos, {{if .Collect}}nil{{else}}struct{}{}{{end}}, false
	}
{{- end}}
	return repeatPos, {{if .Collect}}repeatValue{{else}}struct{}{}{{end}}, true
}()`)

	assertTemplate = codegen.NewTemplate("assert", `func() (int, struct{}, bool) {
	_, _, ok := {{.Expr}}
	return pos, struct{}{}, {{if .Negate}}!{{end}}ok
}()`)

	actionTailTemplate = codegen.NewTemplate("actionTail", `matchStr := input[startPos:pos]
_ = matchStr
return pos, {{.}}, true`)
)

// reservedNames cannot be used as binding names since generated code refers to them.
var reservedNames = makeSet(
	"input", "pos", "ok", "startPos", "matchStr",
	support.SliceEq, support.AnyChar, support.PosToLine, "fmt",

	"any", "bool", "byte", "comparable", "complex64", "complex128", "error",
	"float32", "float64", "int", "int8", "int16", "int32", "int64", "rune", "string",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"true", "false", "iota", "nil",
	"append", "cap", "clear", "close", "complex", "copy", "delete", "imag", "len", "make",
	"max", "min", "new", "panic", "print", "println", "real", "recover",
)

func makeSet(names ...string) map[string]bool {
	res := make(map[string]bool, len(names))
	for _, name := range names {
		res[name] = true
	}
	return res
}

// isReserved reports whether a binding with this name would hide a name used by generated code.
func (c *compiler) isReserved(name string) bool {
	return reservedNames[name] || c.reserved[name] || strings.HasPrefix(name, matcherPrefix)
}

// compileExpr returns a fragment matching x at pos.
// Value is not needed by caller if used is false.
// want contains expected Go type of value or is empty if unknown.
func (c *compiler) compileExpr(x grammar.Expr, used bool, want string) (fragment, error) {
	if !used {
		want = ""
	}
	c.nodes++

	switch x := x.(type) {
	case *grammar.AnyChar:
		return fragment{codegen.Fragment(support.AnyChar + "(input, pos)"), unitType}, nil

	case *grammar.Literal:
		code := fmt.Sprintf("%s(input, pos, %s)", support.SliceEq, codegen.Quote(x.Text))
		return fragment{codegen.Fragment(code), unitType}, nil

	case *grammar.CharSet:
		return c.compileCharSet(x)

	case *grammar.RuleRef:
		return c.compileRuleRef(x)

	case *grammar.Sequence:
		return c.compileSequence(x)

	case *grammar.Choice:
		return c.compileChoice(x, used, want)

	case *grammar.Optional:
		return c.compileOptional(x, used, want)

	case *grammar.Repeat:
		return c.compileRepeat(x, used, want)

	case *grammar.PosAssert:
		return c.compileAssert(x.Expr, false)

	case *grammar.NegAssert:
		return c.compileAssert(x.Expr, true)

	case *grammar.Stringify:
		return fragment{}, notImplementedError("stringify expression")

	case *grammar.Action:
		return c.compileAction(x, want)

	default:
		return fragment{}, unknownExprError(x)
	}
}

func (c *compiler) compileCharSet(x *grammar.CharSet) (fragment, error) {
	conds := make([]string, len(x.Cases))
	for i, cs := range x.Cases {
		if cs.Start == cs.End {
			conds[i] = "ch == " + string(codegen.QuoteRune(cs.Start))
		} else {
			conds[i] = fmt.Sprintf("ch >= %s && ch <= %s", codegen.QuoteRune(cs.Start), codegen.QuoteRune(cs.End))
		}
	}

	data := struct {
		Char, Cond, Member, Other string
	}{
		Char:   "ch",
		Cond:   strings.Join(conds, " || "),
		Member: "pos + size, struct{}{}, true",
		Other:  "pos, struct{}{}, false",
	}
	if len(conds) == 0 {
		data.Char = "_"
		data.Cond = "false"
	}
	if x.Invert {
		data.Member, data.Other = data.Other, data.Member
	}

	code, e := charSetTemplate.Expand(data)
	return fragment{code, unitType}, e
}

func (c *compiler) compileRuleRef(x *grammar.RuleRef) (fragment, error) {
	if !codegen.IsIdent(x.Name) {
		return fragment{}, ruleNameError(x.Name)
	}

	t, found := c.ruleTypes[x.Name]
	if !found {
		c.logger.WithField("ref", x.Name).Warn("reference to undefined rule")
		t = anyType
	}
	return fragment{codegen.Fragment(matcherName(x.Name) + "(input, pos)"), t}, nil
}

func (c *compiler) compileSequence(x *grammar.Sequence) (fragment, error) {
	if len(x.Exprs) == 0 {
		return unitSuccess, nil
	}

	items := make([]fragment, len(x.Exprs))
	for i, sub := range x.Exprs {
		f, e := c.compileExpr(sub, false, "")
		if e != nil {
			return fragment{}, e
		}
		items[i] = f
	}
	if len(items) == 1 && items[0].isUnit() {
		return items[0], nil
	}

	body := codegen.Fragment("return pos, " + unitValue + ", true")
	for i := len(items) - 1; i >= 0; i-- {
		var e error
		body, e = matchAndThen(items[i].code, "", body, unitType)
		if e != nil {
			return fragment{}, e
		}
	}
	return closure(unitType, body)
}

func (c *compiler) compileChoice(x *grammar.Choice, used bool, want string) (fragment, error) {
	if len(x.Exprs) == 0 {
		return unitSuccess, nil
	}
	if len(x.Exprs) == 1 {
		return c.compileExpr(x.Exprs[0], used, want)
	}

	alts := make([]fragment, len(x.Exprs))
	for i, sub := range x.Exprs {
		f, e := c.compileExpr(sub, used, want)
		if e != nil {
			return fragment{}, e
		}
		alts[i] = f
	}

	t := unitType
	if used {
		t = want
		if t == "" {
			t = commonType(alts)
		}
	}

	value, result := "value", "value"
	if t == unitType {
		value, result = "_", unitValue
	}

	var buf bytes.Buffer
	w := codegen.NewWriter(&buf)
	last := len(alts) - 1
	for _, alt := range alts[:last] {
		w.Writelnf("if pos, %s, ok := %s; ok {", value, alt.code)
		w.Writelnf("return pos, %s, true", result)
		w.Writeln("}")
	}
	if t == unitType && !alts[last].isUnit() {
		w.Writelnf("pos, _, ok := %s", alts[last].code)
		w.Writelnf("return pos, %s, ok", unitValue)
	} else {
		w.Writelnf("return %s", alts[last].code)
	}
	if e := w.Err(); e != nil {
		return fragment{}, e
	}

	return closure(t, codegen.Fragment(buf.String()))
}

func commonType(fs []fragment) string {
	t := fs[0].typ
	for _, f := range fs[1:] {
		if f.typ != t {
			return anyType
		}
	}
	return t
}

func (c *compiler) compileOptional(x *grammar.Optional, used bool, want string) (fragment, error) {
	inner, e := c.compileExpr(x.Expr, used, strings.TrimPrefix(want, "*"))
	if e != nil {
		return fragment{}, e
	}

	data := struct {
		Type, Value, Expr, Some, None string
	}{unitType, "_", inner.code.String(), unitValue, unitValue}
	if used {
		data.Type = "*" + inner.typ
		data.Value = "value"
		data.Some = "&value"
		data.None = "nil"
	}

	code, e := optionalTemplate.Expand(data)
	return fragment{code, data.Type}, e
}

func (c *compiler) compileRepeat(x *grammar.Repeat, used bool, want string) (fragment, error) {
	inner, e := c.compileExpr(x.Expr, used, strings.TrimPrefix(want, "[]"))
	if e != nil {
		return fragment{}, e
	}

	least := max(x.Min, 0)
	data := struct {
		Type, Expr, Sep, Counter string
		Collect, Count           bool
		Min                      int
	}{
		Type:    unitType,
		Expr:    inner.code.String(),
		Collect: used,
		Count:   !used && (least > 0 || x.Sep != nil),
		Min:     least,
		Counter: "repeatCount",
	}
	if used {
		data.Type = "[]" + inner.typ
		data.Counter = "len(repeatValue)"
	}
	if x.Sep != nil {
		sep, e := c.compileExpr(x.Sep, false, "")
		if e != nil {
			return fragment{}, e
		}
		data.Sep = sep.code.String()
	}

	code, e := repeatTemplate.Expand(data)
	return fragment{code, data.Type}, e
}

func (c *compiler) compileAssert(x grammar.Expr, negate bool) (fragment, error) {
	inner, e := c.compileExpr(x, false, "")
	if e != nil {
		return fragment{}, e
	}

	code, e := assertTemplate.Expand(struct {
		Expr   string
		Negate bool
	}{inner.code.String(), negate})
	return fragment{code, unitType}, e
}

func (c *compiler) compileAction(x *grammar.Action, want string) (fragment, error) {
	t := want
	if t == "" {
		t = anyType
	}

	code, e := codegen.EmbedExpr(x.Code)
	if e != nil {
		return fragment{}, e
	}
	body, e := actionTailTemplate.Expand(code)
	if e != nil {
		return fragment{}, e
	}

	for i := len(x.Exprs) - 1; i >= 0; i-- {
		te := x.Exprs[i]
		name := te.Name
		if name == "_" {
			name = ""
		}
		if name != "" && (!codegen.IsIdent(name) || c.isReserved(name)) {
			return fragment{}, bindingNameError(name)
		}
		itemType := ""
		if te.Type != "" {
			typ, e := codegen.EmbedType(te.Type)
			if e != nil {
				return fragment{}, e
			}
			itemType = normalizeType(typ.String())
		}

		item, e := c.compileExpr(te.Expr, name != "", itemType)
		if e != nil {
			return fragment{}, e
		}
		body, e = matchAndThen(item.code, name, body, t)
		if e != nil {
			return fragment{}, e
		}
	}

	return closure(t, "startPos := pos\n"+body)
}

// matchAndThen returns a block matching x, binding its value to name (or discarding it),
// and then executing then. Block returns failure of type failType if x fails.
func matchAndThen(x codegen.Fragment, name string, then codegen.Fragment, failType string) (codegen.Fragment, error) {
	data := struct {
		Name, Expr, Fail, Then string
		Bind                   bool
	}{
		Name: "_",
		Expr: x.String(),
		Fail: zeroValue(failType),
		Then: then.String(),
	}
	if name != "" {
		data.Name = name
		data.Bind = true
	}
	return matchAndThenTemplate.Expand(data)
}

func closure(t string, body codegen.Fragment) (fragment, error) {
	code, e := closureTemplate.Expand(struct {
		Type string
		Body string
	}{t, body.String()})
	return fragment{code, t}, e
}

// discard converts fragment to unit one.
func discard(f fragment) (fragment, error) {
	if f.isUnit() {
		return f, nil
	}

	code, e := discardTemplate.Expand(f.code.String())
	return fragment{code, unitType}, e
}
