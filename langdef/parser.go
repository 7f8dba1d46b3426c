package langdef

import (
	"go/token"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/ava12/pegen/grammar"
	"github.com/ava12/pegen/source"
)

// ParseString decodes grammar document and returns a grammar on success.
// Returns nil and error on failure, see Parse.
func ParseString(name, content string) (*grammar.Grammar, error) {
	return Parse(source.New(name, []byte(content)))
}

// ParseBytes decodes grammar document and returns a grammar on success.
// Returns nil and error on failure, see Parse.
func ParseBytes(name string, content []byte) (*grammar.Grammar, error) {
	return Parse(source.New(name, content))
}

// ParseFile reads and decodes grammar document file.
func ParseFile(path string) (*grammar.Grammar, error) {
	src, e := source.ReadFile(path)
	if e != nil {
		return nil, e
	}
	return Parse(src)
}

// Parse decodes grammar document and returns a grammar on success.
// Returns nil and *pegen.Error if there is a single problem
// or *multierror.Error holding a *pegen.Error for each problem.
func Parse(s *source.Source) (*grammar.Grammar, error) {
	var doc yaml.Node
	if e := yaml.Unmarshal(s.Content(), &doc); e != nil {
		return nil, syntaxError(s, e)
	}

	d := &decoder{src: s, ruleLines: make(map[string]int)}
	g := d.document(&doc)
	if d.errs == nil {
		return g, nil
	}
	if len(d.errs.Errors) == 1 {
		return nil, d.errs.Errors[0]
	}
	return nil, d.errs
}

type decoder struct {
	src       *source.Source
	errs      *multierror.Error
	ruleLines map[string]int
}

type field struct {
	key   string
	node  *yaml.Node
	value *yaml.Node
}

func (d *decoder) pos(n *yaml.Node) source.Pos {
	return d.src.At(n.Line, n.Column)
}

func (d *decoder) fail(e error) {
	d.errs = multierror.Append(d.errs, e)
	d.errs.ErrorFormat = formatErrors
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func (d *decoder) mapping(n *yaml.Node, what string) []field {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		d.fail(wrongValueError(d.pos(n), what))
		return nil
	}

	res := make([]field, 0, len(n.Content)/2)
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		if key.Kind != yaml.ScalarNode {
			d.fail(wrongValueError(d.pos(key), "string key"))
			continue
		}
		if seen[key.Value] {
			d.fail(wrongValueError(d.pos(key), "unique key, got duplicate "+key.Value))
			continue
		}
		seen[key.Value] = true
		res = append(res, field{key.Value, key, n.Content[i+1]})
	}
	return res
}

func hasKey(n *yaml.Node, key string) bool {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

func (d *decoder) sequence(n *yaml.Node, what string) []*yaml.Node {
	n = resolve(n)
	if n.Kind != yaml.SequenceNode {
		d.fail(wrongValueError(d.pos(n), what))
		return nil
	}
	return n.Content
}

func (d *decoder) scalar(n *yaml.Node, what string) (string, bool) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		d.fail(wrongValueError(d.pos(n), what))
		return "", false
	}
	return n.Value, true
}

func (d *decoder) name(n *yaml.Node, what string) (string, bool) {
	res, valid := d.scalar(n, what)
	if valid && !token.IsIdentifier(res) {
		d.fail(wrongValueError(d.pos(n), what+", got "+res))
		return "", false
	}
	return res, valid
}

func (d *decoder) flag(n *yaml.Node) bool {
	var res bool
	if e := resolve(n).Decode(&res); e != nil {
		d.fail(wrongValueError(d.pos(n), "boolean"))
	}
	return res
}

func (d *decoder) count(n *yaml.Node) int {
	var res int
	if e := resolve(n).Decode(&res); e != nil || res < 0 {
		d.fail(wrongValueError(d.pos(n), "non-negative integer"))
		return 0
	}
	return res
}

func (d *decoder) document(doc *yaml.Node) *grammar.Grammar {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		d.fail(missingValueError(d.src.At(1, 1), "rules"))
		return nil
	}

	root := resolve(doc.Content[0])
	g := &grammar.Grammar{}
	hasRules := false
	for _, f := range d.mapping(root, "grammar document mapping") {
		switch f.key {
		case "initializer":
			g.Initializer, _ = d.scalar(f.value, "Go declarations")
		case "imports":
			g.Imports = d.imports(f.value)
		case "rules":
			hasRules = true
			g.Rules = d.rules(f.value)
		default:
			d.fail(unknownKeyError(d.pos(f.node), f.key))
		}
	}
	if !hasRules && root.Kind == yaml.MappingNode {
		d.fail(missingValueError(d.pos(root), "rules"))
	}
	return g
}

func (d *decoder) imports(n *yaml.Node) []grammar.Import {
	items := d.sequence(n, "list of imports")
	res := make([]grammar.Import, 0, len(items))
	for _, item := range items {
		item = resolve(item)
		if item.Kind == yaml.ScalarNode {
			path, valid := d.scalar(item, "import path")
			if valid {
				res = append(res, grammar.Import{Path: path})
			}
			continue
		}

		imp := grammar.Import{}
		hasPath := false
		for _, f := range d.mapping(item, "import path or {name, path} mapping") {
			switch f.key {
			case "name":
				imp.Name, _ = d.scalar(f.value, "import name")
			case "path":
				imp.Path, hasPath = d.scalar(f.value, "import path")
			default:
				d.fail(unknownKeyError(d.pos(f.node), f.key))
			}
		}
		if item.Kind == yaml.MappingNode && !hasPath {
			d.fail(missingValueError(d.pos(item), "path"))
		}
		res = append(res, imp)
	}
	return res
}

func (d *decoder) rules(n *yaml.Node) []grammar.Rule {
	items := d.sequence(n, "list of rules")
	res := make([]grammar.Rule, 0, len(items))
	for _, item := range items {
		res = append(res, d.rule(item))
	}
	return res
}

func (d *decoder) rule(n *yaml.Node) grammar.Rule {
	n = resolve(n)
	res := grammar.Rule{}
	hasName, hasExpr := false, false
	for _, f := range d.mapping(n, "rule mapping") {
		switch f.key {
		case "name":
			res.Name, hasName = d.name(f.value, "rule name")
			if !hasName {
				break
			}
			if line, defined := d.ruleLines[res.Name]; defined {
				d.fail(duplicateRuleError(d.pos(f.value), res.Name, line))
			} else {
				d.ruleLines[res.Name] = f.value.Line
			}
		case "type":
			res.Type, _ = d.scalar(f.value, "Go type")
		case "exported":
			res.Exported = d.flag(f.value)
		case "expr":
			hasExpr = true
			res.Expr = d.expr(f.value)
		default:
			d.fail(unknownKeyError(d.pos(f.node), f.key))
		}
	}

	if n.Kind == yaml.MappingNode {
		if !hasName && !hasKey(n, "name") {
			d.fail(missingValueError(d.pos(n), "name"))
		}
		if !hasExpr {
			d.fail(missingValueError(d.pos(n), "expr"))
		}
	}
	return res
}
