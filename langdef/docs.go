/*
Package langdef converts grammar document to grammar.Grammar structure.

Grammar document is a YAML (or JSON) mapping with keys:
*/
//	initializer: |         # optional Go declarations copied to generated file, may contain imports
//	  func atoi(s string) int { n, _ := strconv.Atoi(s); return n }
//	imports:               # optional list of Go imports
//	  - strconv            # plain import path
//	  - {name: f, path: fmt}
//	rules:                 # list of rules, at least one
//	  - name: digit        # Go identifier, unique
//	    type: int          # optional Go type of rule value, no type means struct{}
//	    exported: true     # optional, adds Digit(input string) (int, error) function
//	    expr:
//	      action:
//	        exprs:
//	          - repeat: {expr: {class: "0-9"}, min: 1}
//	        code: atoi(matchStr)
/*
Expression is a mapping containing exactly one key:

	any: ~                      # any single character, value is ignored
	literal: text               # exact text
	class: "a-z_"               # single character from set
	class: "^\n"                # single character not in set
	class: {invert: true, cases: ["a-z", "_"]}
	rule: name                  # rule reference
	seq: [expr, ...]            # all expressions in order
	choice: [expr, ...]         # the first matching expression
	optional: expr              # expression or nothing, never fails
	repeat: expr                # expression repeated 0 or more times
	repeat: {expr: expr, min: 1, sep: expr}
	and: expr                   # positive lookahead, consumes nothing
	not: expr                   # negative lookahead, consumes nothing
	stringify: expr             # reserved, compiler rejects it
	action: {exprs: [item, ...], code: go-expression}

Plain scalar is a shorthand for rule reference, list is a shorthand for sequence:

	expr: [{literal: "("}, expr, {literal: ")"}]

Action item is either an expression or a mapping {name: identifier, expr: expr, type: go-type}.
Named items are visible in action code and in items that follow.
Optional type sets the Go type of a bound nested action value, otherwise such value is of type any.
Action code also sees matchStr variable holding matched text.

Character set cases are single characters or ranges (a-z).
Backslash escapes the next character, e.g. \- or \\, while \n, \r, and \t denote control characters.
Leading ^ in string form inverts the set.

YAML anchors and aliases may be used to repeat expressions, each alias produces a separate expression tree.

All problems found in a document are reported at once, each with line and column.
*/
package langdef
