package langdef

import (
	"gopkg.in/yaml.v3"

	"github.com/ava12/pegen/grammar"
)

func (d *decoder) expr(n *yaml.Node) grammar.Expr {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		name, valid := d.name(n, "rule name")
		if !valid {
			return nil
		}
		return &grammar.RuleRef{Name: name}

	case yaml.SequenceNode:
		return &grammar.Sequence{Exprs: d.exprList(n)}

	case yaml.MappingNode:
		fields := d.mapping(n, "expression")
		if len(fields) != 1 {
			d.fail(wrongValueError(d.pos(n), "exactly one expression key"))
			return nil
		}
		return d.keyedExpr(fields[0])

	default:
		d.fail(wrongValueError(d.pos(n), "expression"))
		return nil
	}
}

func (d *decoder) keyedExpr(f field) grammar.Expr {
	switch f.key {
	case "any":
		return &grammar.AnyChar{}

	case "literal":
		text, valid := d.scalar(f.value, "literal text")
		if !valid {
			return nil
		}
		return &grammar.Literal{Text: text}

	case "class":
		return d.charSet(f.value)

	case "rule":
		name, valid := d.name(f.value, "rule name")
		if !valid {
			return nil
		}
		return &grammar.RuleRef{Name: name}

	case "seq":
		return &grammar.Sequence{Exprs: d.exprList(f.value)}

	case "choice":
		return &grammar.Choice{Exprs: d.exprList(f.value)}

	case "optional":
		return &grammar.Optional{Expr: d.expr(f.value)}

	case "repeat":
		return d.repeat(f.value)

	case "and":
		return &grammar.PosAssert{Expr: d.expr(f.value)}

	case "not":
		return &grammar.NegAssert{Expr: d.expr(f.value)}

	case "stringify":
		return &grammar.Stringify{Expr: d.expr(f.value)}

	case "action":
		return d.action(f.value)

	default:
		d.fail(unknownKeyError(d.pos(f.node), f.key))
		return nil
	}
}

func (d *decoder) exprList(n *yaml.Node) []grammar.Expr {
	items := d.sequence(n, "list of expressions")
	res := make([]grammar.Expr, 0, len(items))
	for _, item := range items {
		res = append(res, d.expr(item))
	}
	return res
}

func (d *decoder) repeat(n *yaml.Node) grammar.Expr {
	if !hasKey(n, "expr") {
		return &grammar.Repeat{Expr: d.expr(n)}
	}

	res := &grammar.Repeat{}
	for _, f := range d.mapping(n, "repetition") {
		switch f.key {
		case "expr":
			res.Expr = d.expr(f.value)
		case "min":
			res.Min = d.count(f.value)
		case "sep":
			res.Sep = d.expr(f.value)
		default:
			d.fail(unknownKeyError(d.pos(f.node), f.key))
		}
	}
	return res
}

func (d *decoder) action(n *yaml.Node) grammar.Expr {
	n = resolve(n)
	res := &grammar.Action{}
	hasCode := false
	for _, f := range d.mapping(n, "action mapping") {
		switch f.key {
		case "exprs":
			for _, item := range d.sequence(f.value, "list of action items") {
				res.Exprs = append(res.Exprs, d.actionItem(item))
			}
		case "code":
			res.Code, hasCode = d.scalar(f.value, "Go expression")
		default:
			d.fail(unknownKeyError(d.pos(f.node), f.key))
		}
	}

	if n.Kind == yaml.MappingNode && !hasCode && !hasKey(n, "code") {
		d.fail(missingValueError(d.pos(n), "code"))
	}
	return res
}

func (d *decoder) actionItem(n *yaml.Node) grammar.TaggedExpr {
	if !hasKey(n, "name") {
		return grammar.TaggedExpr{Expr: d.expr(n)}
	}

	n = resolve(n)
	res := grammar.TaggedExpr{}
	hasExpr := false
	for _, f := range d.mapping(n, "action item") {
		switch f.key {
		case "name":
			res.Name, _ = d.name(f.value, "binding name")
		case "type":
			res.Type, _ = d.scalar(f.value, "Go type")
		case "expr":
			hasExpr = true
			res.Expr = d.expr(f.value)
		default:
			d.fail(unknownKeyError(d.pos(f.node), f.key))
		}
	}
	if !hasExpr {
		d.fail(missingValueError(d.pos(n), "expr"))
	}
	return res
}

func (d *decoder) charSet(n *yaml.Node) grammar.Expr {
	n = resolve(n)
	if n.Kind == yaml.ScalarNode {
		text, valid := d.scalar(n, "character class")
		if !valid {
			return nil
		}
		res, problem := parseCases(text, true)
		if problem != "" {
			d.fail(wrongValueError(d.pos(n), "character class, "+problem))
			return nil
		}
		return res
	}

	res := &grammar.CharSet{}
	for _, f := range d.mapping(n, "character class") {
		switch f.key {
		case "invert":
			res.Invert = d.flag(f.value)
		case "cases":
			res.Cases = d.cases(f.value)
		default:
			d.fail(unknownKeyError(d.pos(f.node), f.key))
		}
	}
	return res
}

func (d *decoder) cases(n *yaml.Node) []grammar.CharSetCase {
	n = resolve(n)
	items := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		items = n.Content
	}

	var res []grammar.CharSetCase
	for _, item := range items {
		text, valid := d.scalar(item, "character class cases")
		if !valid {
			continue
		}
		cs, problem := parseCases(text, false)
		if problem != "" {
			d.fail(wrongValueError(d.pos(item), "character class cases, "+problem))
			continue
		}
		res = append(res, cs.Cases...)
	}
	return res
}

// parseCases converts text like "^a-z_" to character set.
// Returns non-empty problem description on failure.
func parseCases(text string, allowInvert bool) (*grammar.CharSet, string) {
	rs := []rune(text)
	res := &grammar.CharSet{}
	i := 0
	if allowInvert && len(rs) > 0 && rs[0] == '^' {
		res.Invert = true
		i++
	}

	read := func() (rune, bool) {
		r := rs[i]
		i++
		if r != '\\' {
			return r, true
		}
		if i >= len(rs) {
			return 0, false
		}
		r = rs[i]
		i++
		switch r {
		case 'n':
			r = '\n'
		case 'r':
			r = '\r'
		case 't':
			r = '\t'
		}
		return r, true
	}

	for i < len(rs) {
		start, valid := read()
		if !valid {
			return nil, "dangling backslash"
		}
		end := start
		if i+1 < len(rs) && rs[i] == '-' {
			i++
			end, valid = read()
			if !valid {
				return nil, "dangling backslash"
			}
		}
		if end < start {
			return nil, "wrong range " + string(start) + "-" + string(end)
		}
		res.Cases = append(res.Cases, grammar.CharSetCase{Start: start, End: end})
	}
	return res, ""
}
