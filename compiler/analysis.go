package compiler

import (
	"github.com/ava12/pegen/grammar"
	"github.com/ava12/pegen/internal/queue"
)

// Unreachable lists names of rules that cannot be reached from any exported rule.
// Returns nil if the grammar has no exported rules.
func Unreachable(g *grammar.Grammar) []string {
	reached := make(map[string]bool, len(g.Rules))
	q := queue.New[string]()
	for _, r := range g.Rules {
		if r.Exported && !reached[r.Name] {
			reached[r.Name] = true
			q.Append(r.Name)
		}
	}
	if q.IsEmpty() {
		return nil
	}

	for !q.IsEmpty() {
		name, _ := q.First()
		r := g.Rule(name)
		if r == nil {
			continue
		}
		grammar.Walk(r.Expr, func(e grammar.Expr) bool {
			if ref, isRef := e.(*grammar.RuleRef); isRef && !reached[ref.Name] {
				reached[ref.Name] = true
				q.Append(ref.Name)
			}
			return true
		})
	}

	var res []string
	for _, r := range g.Rules {
		if !reached[r.Name] {
			res = append(res, r.Name)
		}
	}
	return res
}
