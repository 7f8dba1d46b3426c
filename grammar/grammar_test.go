package grammar

import (
	"testing"

	"github.com/ava12/pegen/internal/test"
)

func TestExprString(t *testing.T) {
	samples := []struct {
		expr     Expr
		expected string
	}{
		{&AnyChar{}, "."},
		{&Literal{"a\"b\n"}, `"a\"b\n"`},
		{&CharSet{Cases: []CharSetCase{{'a', 'z'}, {'_', '_'}}}, "[a-z_]"},
		{&CharSet{Invert: true, Cases: []CharSetCase{{'-', '-'}, {']', ']'}, {'\n', '\n'}}}, `[^\-\]\n]`},
		{&RuleRef{"expr"}, "expr"},
		{&Sequence{[]Expr{&RuleRef{"a"}, &Literal{"b"}}}, `(a "b")`},
		{&Choice{[]Expr{&RuleRef{"a"}, &RuleRef{"b"}}}, "(a / b)"},
		{&Optional{&RuleRef{"a"}}, "a?"},
		{&Repeat{Expr: &RuleRef{"a"}}, "a*"},
		{&Repeat{Expr: &RuleRef{"a"}, Min: 1, Sep: &Literal{","}}, `a+ % ","`},
		{&Repeat{Expr: &RuleRef{"a"}, Min: 3}, "a{3,}"},
		{&PosAssert{&RuleRef{"a"}}, "&a"},
		{&NegAssert{&AnyChar{}}, "!."},
		{&Stringify{&RuleRef{"a"}}, "$a"},
		{&Action{Exprs: []TaggedExpr{{Name: "x", Expr: &RuleRef{"a"}}, {Expr: &Literal{"+"}}}, Code: "x + 1"}, `x:a "+" {x + 1}`},
		{&Stringify{}, "$<nil>"},
		{&Repeat{Min: 1, Sep: &Literal{","}}, `<nil>+ % ","`},
		{&Sequence{[]Expr{nil, &AnyChar{}}}, "(<nil> .)"},
		{&Action{Exprs: []TaggedExpr{{Name: "x"}}, Code: "x"}, "x:<nil> {x}"},
	}

	for _, s := range samples {
		test.ExpectString(t, s.expected, s.expr.String())
	}
}

func TestUnitType(t *testing.T) {
	samples := []struct {
		typ  string
		unit bool
	}{
		{"", true},
		{"struct{}", true},
		{" struct { } ", true},
		{"int", false},
		{"struct{ x int }", false},
	}
	for _, s := range samples {
		test.ExpectBool(t, s.unit, IsUnitType(s.typ))
		r := Rule{Type: s.typ}
		test.ExpectBool(t, s.unit, r.IsUnit())
	}

	test.ExpectString(t, UnitType, (&Rule{}).ValueType())
	test.ExpectString(t, "[]int", (&Rule{Type: "[]int"}).ValueType())
}

func TestGrammarRule(t *testing.T) {
	g := &Grammar{Rules: []Rule{{Name: "a"}, {Name: "b", Type: "int"}}}
	r := g.Rule("b")
	test.Assert(t, r != nil && r.Type == "int", "rule b not found")
	test.Assert(t, g.Rule("c") == nil, "unexpected rule c")
}

func TestWalk(t *testing.T) {
	e := &Action{
		Exprs: []TaggedExpr{
			{Name: "x", Expr: &Choice{[]Expr{&RuleRef{"a"}, &Optional{&RuleRef{"b"}}}}},
			{Expr: &Repeat{Expr: &RuleRef{"c"}, Sep: &RuleRef{"d"}}},
			{Expr: &NegAssert{&RuleRef{"e"}}},
		},
	}

	var refs string
	Walk(e, func(sub Expr) bool {
		if ref, isRef := sub.(*RuleRef); isRef {
			refs += ref.Name
		}
		return true
	})
	test.ExpectString(t, "abcde", refs)

	refs = ""
	Walk(e, func(sub Expr) bool {
		if ref, isRef := sub.(*RuleRef); isRef {
			refs += ref.Name
		}
		_, isOpt := sub.(*Optional)
		_, isRepeat := sub.(*Repeat)
		return !isOpt && !isRepeat
	})
	test.ExpectString(t, "ae", refs)
}
