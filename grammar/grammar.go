package grammar

import (
	"fmt"
	"sort"

	"github.com/erraggy/apish/dslerrors"
)

// DefaultMaxDepth bounds rule nesting while parsing. Deeply nested input
// fails with a *dslerrors.ResourceLimitError instead of exhausting the stack.
const DefaultMaxDepth = 512

// Rule is a named entry in a rule table.
type Rule struct {
	// Name identifies the rule in Ref expressions, in the parse tree and in
	// syntax errors.
	Name string
	// Expr is the expression the rule matches.
	Expr Expr
	// Silent rules produce no node; the nodes of rules they reference are
	// attached to the enclosing rule instead.
	Silent bool
}

// Grammar is a validated rule table with a start rule.
type Grammar struct {
	start string
	rules []Rule
	index map[string]int
}

// New validates a rule table and returns a Grammar that starts at start.
// Rule names must be unique and every Ref must name a rule in the table.
func New(start string, rules ...Rule) (*Grammar, error) {
	g := &Grammar{start: start, rules: rules, index: make(map[string]int, len(rules))}
	for i, r := range rules {
		if r.Name == "" {
			return nil, &dslerrors.ConfigError{Option: "grammar", Value: i, Message: "rule without a name"}
		}
		if r.Expr == nil {
			return nil, &dslerrors.ConfigError{Option: "grammar", Value: r.Name, Message: "rule without an expression"}
		}
		if _, dup := g.index[r.Name]; dup {
			return nil, &dslerrors.ConfigError{Option: "grammar", Value: r.Name, Message: "duplicate rule"}
		}
		g.index[r.Name] = i
	}
	if _, ok := g.index[start]; !ok {
		return nil, &dslerrors.ConfigError{Option: "grammar", Value: start, Message: "unknown start rule"}
	}

	for _, r := range rules {
		used := make(map[string]struct{})
		refs(r.Expr, used)
		names := make([]string, 0, len(used))
		for name := range used {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, ok := g.index[name]; !ok {
				return nil, &dslerrors.ConfigError{
					Option:  "grammar",
					Value:   name,
					Message: fmt.Sprintf("rule %q references an undefined rule", r.Name),
				}
			}
		}
	}
	return g, nil
}

// MustNew is like New but panics on an invalid table.
func MustNew(start string, rules ...Rule) *Grammar {
	g, err := New(start, rules...)
	if err != nil {
		panic(err)
	}
	return g
}

// Start returns the name of the start rule.
func (g *Grammar) Start() string { return g.start }

// Rules returns the rule names in table order.
func (g *Grammar) Rules() []string {
	names := make([]string, len(g.rules))
	for i, r := range g.rules {
		names[i] = r.Name
	}
	return names
}

// ParseOption configures a single Parse call.
type ParseOption func(*parseConfig)

type parseConfig struct {
	source   string
	maxDepth int
}

// WithSource names the document in syntax errors.
func WithSource(name string) ParseOption {
	return func(c *parseConfig) { c.source = name }
}

// WithMaxDepth overrides DefaultMaxDepth. Values <= 0 keep the default.
func WithMaxDepth(depth int) ParseOption {
	return func(c *parseConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// Parse matches src against the start rule and returns the root node.
//
// The whole input does not have to be consumed unless the start rule ends
// with EOI; a grammar that leaves input behind gets a syntax error pointing
// at the first unconsumed character.
func (g *Grammar) Parse(src string, opts ...ParseOption) (*Node, error) {
	cfg := parseConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := newParser(g, src, cfg.maxDepth)
	end, nodes, ok := p.rule(g.start, 0)
	if p.err != nil {
		return nil, p.err
	}
	if !ok {
		return nil, p.syntaxError(cfg.source)
	}
	if end != len(src) {
		p.fail(end, "end of input")
		return nil, p.syntaxError(cfg.source)
	}

	if len(nodes) == 1 && nodes[0].Rule == g.start {
		return nodes[0], nil
	}
	// silent start rule
	return &Node{Rule: g.start, Text: src, Pos: Position{Offset: 0, Line: 1, Column: 1}, End: len(src), Children: nodes}, nil
}
