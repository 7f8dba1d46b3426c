// Package grammar defines grammar tree consumed by compiler.
//
// Grammar is a list of rules, each rule holds an expression tree.
// Every node is owned by its parent, trees are never shared or mutated by compiler.
package grammar

import (
	"strconv"
	"strings"
)

// UnitType is the Go type of values produced by expressions that carry no value.
const UnitType = "struct{}"

// Grammar is the root of grammar tree.
type Grammar struct {
	// Initializer contains Go declarations copied to generated file as is.
	Initializer string

	// Imports contains Go import declarations used by initializer and actions.
	Imports []Import

	// Rules contains all rules in declaration order.
	Rules []Rule
}

// Import is a Go import declaration.
// Name is either empty, a package alias, "." or "_".
type Import struct {
	Name, Path string
}

// Rule is a named expression.
type Rule struct {
	Name string
	Expr Expr

	// Type contains Go type of rule value, empty string means UnitType.
	Type string

	// Exported rules get public function matching the whole input.
	Exported bool
}

// ValueType returns Go type of rule value.
func (r *Rule) ValueType() string {
	if r.Type == "" {
		return UnitType
	}
	return r.Type
}

// IsUnit reports whether rule carries no value.
func (r *Rule) IsUnit() bool {
	return IsUnitType(r.Type)
}

// IsUnitType reports whether t denotes UnitType.
func IsUnitType(t string) bool {
	t = strings.TrimSpace(t)
	return t == "" || strings.ReplaceAll(t, " ", "") == UnitType
}

// Rule returns a rule with given name or nil.
func (g *Grammar) Rule(name string) *Rule {
	for i := range g.Rules {
		if g.Rules[i].Name == name {
			return &g.Rules[i]
		}
	}
	return nil
}

// Expr is a grammar expression, one of:
// *AnyChar, *Literal, *CharSet, *RuleRef, *Sequence, *Choice, *Optional,
// *Repeat, *PosAssert, *NegAssert, *Stringify, *Action.
type Expr interface {
	String() string
	expr()
}

// AnyChar matches any single character.
type AnyChar struct{}

// Literal matches exact text.
type Literal struct {
	Text string
}

// CharSetCase is an inclusive character range, Start == End for a single character.
type CharSetCase struct {
	Start, End rune
}

// CharSet matches a single character belonging (or not belonging if Invert is set) to any of cases.
type CharSet struct {
	Invert bool
	Cases  []CharSetCase
}

// RuleRef matches named rule.
type RuleRef struct {
	Name string
}

// Sequence matches all expressions one after another.
type Sequence struct {
	Exprs []Expr
}

// Choice matches the first matching expression, all alternatives start at the same position.
type Choice struct {
	Exprs []Expr
}

// Optional matches expression zero or one time.
type Optional struct {
	Expr Expr
}

// Repeat matches expression at least Min times.
// Sep is nil or an expression matched between repetitions.
type Repeat struct {
	Expr Expr
	Min  int
	Sep  Expr
}

// PosAssert matches if expression matches, consumes nothing.
type PosAssert struct {
	Expr Expr
}

// NegAssert matches if expression does not match, consumes nothing.
type NegAssert struct {
	Expr Expr
}

// Stringify is reserved, compiler rejects it.
type Stringify struct {
	Expr Expr
}

// TaggedExpr is an action item, Name is empty for anonymous items.
// Type is an optional Go type of bound value, it is required
// when the value of a nested action is bound.
type TaggedExpr struct {
	Name string
	Type string
	Expr Expr
}

// Action matches all items one after another, then evaluates Go expression Code.
type Action struct {
	Exprs []TaggedExpr
	Code  string
}

func (*AnyChar) expr()   {}
func (*Literal) expr()   {}
func (*CharSet) expr()   {}
func (*RuleRef) expr()   {}
func (*Sequence) expr()  {}
func (*Choice) expr()    {}
func (*Optional) expr()  {}
func (*Repeat) expr()    {}
func (*PosAssert) expr() {}
func (*NegAssert) expr() {}
func (*Stringify) expr() {}
func (*Action) expr()    {}

func (*AnyChar) String() string {
	return "."
}

func (e *Literal) String() string {
	return strconv.Quote(e.Text)
}

func (e *CharSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	if e.Invert {
		sb.WriteByte('^')
	}
	for _, c := range e.Cases {
		sb.WriteString(quoteRune(c.Start))
		if c.End != c.Start {
			sb.WriteByte('-')
			sb.WriteString(quoteRune(c.End))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func quoteRune(r rune) string {
	switch r {
	case '-', ']', '^', '\\':
		return `\` + string(r)
	}
	q := strconv.QuoteRune(r)
	return q[1 : len(q)-1]
}

func (e *RuleRef) String() string {
	return e.Name
}

func (e *Sequence) String() string {
	return "(" + joinExprs(e.Exprs, " ") + ")"
}

func (e *Choice) String() string {
	return "(" + joinExprs(e.Exprs, " / ") + ")"
}

func (e *Optional) String() string {
	return exprString(e.Expr) + "?"
}

func (e *Repeat) String() string {
	res := exprString(e.Expr)
	switch e.Min {
	case 0:
		res += "*"
	case 1:
		res += "+"
	default:
		res += "{" + strconv.Itoa(e.Min) + ",}"
	}
	if e.Sep != nil {
		res += " % " + exprString(e.Sep)
	}
	return res
}

func (e *PosAssert) String() string {
	return "&" + exprString(e.Expr)
}

func (e *NegAssert) String() string {
	return "!" + exprString(e.Expr)
}

func (e *Stringify) String() string {
	return "$" + exprString(e.Expr)
}

func (e *Action) String() string {
	items := make([]string, len(e.Exprs))
	for i, te := range e.Exprs {
		if te.Name == "" {
			items[i] = exprString(te.Expr)
		} else {
			items[i] = te.Name + ":" + exprString(te.Expr)
		}
	}
	return strings.Join(items, " ") + " {" + e.Code + "}"
}

// exprString renders missing subexpressions as "<nil>".
func exprString(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

func joinExprs(exprs []Expr, sep string) string {
	items := make([]string, len(exprs))
	for i, e := range exprs {
		items[i] = exprString(e)
	}
	return strings.Join(items, sep)
}

// Walk calls fn for expression and all its subexpressions in depth-first order.
// Children are skipped if fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch e := e.(type) {
	case *Sequence:
		for _, sub := range e.Exprs {
			Walk(sub, fn)
		}
	case *Choice:
		for _, sub := range e.Exprs {
			Walk(sub, fn)
		}
	case *Optional:
		Walk(e.Expr, fn)
	case *Repeat:
		Walk(e.Expr, fn)
		Walk(e.Sep, fn)
	case *PosAssert:
		Walk(e.Expr, fn)
	case *NegAssert:
		Walk(e.Expr, fn)
	case *Stringify:
		Walk(e.Expr, fn)
	case *Action:
		for _, te := range e.Exprs {
			Walk(te.Expr, fn)
		}
	}
}
