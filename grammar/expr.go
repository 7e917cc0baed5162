package grammar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expr is a parsing expression. Values are built with the constructors in
// this file and are immutable once created.
type Expr interface {
	// match tries the expression at pos and returns the end offset and the
	// nodes produced by named rules inside it.
	match(p *parser, pos int) (int, []*Node, bool)
	String() string
}

type literal struct {
	text string
	fold bool
}

// Lit matches text exactly.
func Lit(text string) Expr { return literal{text: text} }

// LitFold matches text ignoring ASCII case.
func LitFold(text string) Expr { return literal{text: text, fold: true} }

func (l literal) match(p *parser, pos int) (int, []*Node, bool) {
	end := pos + len(l.text)
	if end <= len(p.src) {
		got := p.src[pos:end]
		if got == l.text || (l.fold && strings.EqualFold(got, l.text)) {
			return end, nil, true
		}
	}
	p.fail(pos, l.String())
	return pos, nil, false
}

func (l literal) String() string { return strconv.Quote(l.text) }

type pattern struct {
	label string
	re    *regexp.Regexp
}

// Pat matches the regular expression expr anchored at the current position.
// label names the token in syntax errors. Pat panics if expr does not
// compile; rule tables are static data, so this surfaces when the table is
// first built.
func Pat(label, expr string) Expr {
	return pattern{label: label, re: regexp.MustCompile(`^(?:` + expr + `)`)}
}

func (t pattern) match(p *parser, pos int) (int, []*Node, bool) {
	loc := t.re.FindStringIndex(p.src[pos:])
	if loc == nil {
		p.fail(pos, t.label)
		return pos, nil, false
	}
	return pos + loc[1], nil, true
}

func (t pattern) String() string { return t.label }

type sequence []Expr

// Seq matches every expression in order.
func Seq(exprs ...Expr) Expr { return sequence(exprs) }

func (s sequence) match(p *parser, pos int) (int, []*Node, bool) {
	var nodes []*Node
	cur := pos
	for _, e := range s {
		end, children, ok := e.match(p, cur)
		if !ok {
			return pos, nil, false
		}
		nodes = append(nodes, children...)
		cur = end
	}
	return cur, nodes, true
}

func (s sequence) String() string { return "(" + joinExprs(s, " ") + ")" }

type choice []Expr

// Choice tries each alternative in order and keeps the first that matches.
func Choice(alts ...Expr) Expr { return choice(alts) }

func (c choice) match(p *parser, pos int) (int, []*Node, bool) {
	for _, e := range c {
		if end, nodes, ok := e.match(p, pos); ok {
			return end, nodes, true
		}
		if p.err != nil {
			break
		}
	}
	return pos, nil, false
}

func (c choice) String() string { return "(" + joinExprs(c, " | ") + ")" }

type repeat struct {
	expr Expr
	min  int
	max  int // 0 means unbounded
}

// Star matches expr zero or more times.
func Star(expr Expr) Expr { return repeat{expr: expr} }

// Plus matches expr one or more times.
func Plus(expr Expr) Expr { return repeat{expr: expr, min: 1} }

// Opt matches expr zero or one time.
func Opt(expr Expr) Expr { return repeat{expr: expr, max: 1} }

func (r repeat) match(p *parser, pos int) (int, []*Node, bool) {
	var nodes []*Node
	cur, count := pos, 0
	for r.max == 0 || count < r.max {
		end, children, ok := r.expr.match(p, cur)
		if !ok {
			break
		}
		nodes = append(nodes, children...)
		count++
		if end == cur {
			// empty match; looping again would never terminate
			break
		}
		cur = end
	}
	if count < r.min || p.err != nil {
		return pos, nil, false
	}
	return cur, nodes, true
}

func (r repeat) String() string {
	switch {
	case r.max == 1:
		return r.expr.String() + "?"
	case r.min == 1:
		return r.expr.String() + "+"
	default:
		return r.expr.String() + "*"
	}
}

type lookahead struct {
	expr   Expr
	negate bool
}

// Not succeeds without consuming input when expr does not match.
func Not(expr Expr) Expr { return lookahead{expr: expr, negate: true} }

// And succeeds without consuming input when expr matches.
func And(expr Expr) Expr { return lookahead{expr: expr} }

func (l lookahead) match(p *parser, pos int) (int, []*Node, bool) {
	p.quiet++
	_, _, ok := l.expr.match(p, pos)
	p.quiet--
	if p.err != nil {
		return pos, nil, false
	}
	if ok == l.negate {
		if l.negate {
			p.fail(pos, "not "+l.expr.String())
		} else {
			p.fail(pos, l.expr.String())
		}
		return pos, nil, false
	}
	return pos, nil, true
}

func (l lookahead) String() string {
	if l.negate {
		return "!" + l.expr.String()
	}
	return "&" + l.expr.String()
}

type reference string

// Ref matches the rule with the given name.
func Ref(name string) Expr { return reference(name) }

func (r reference) match(p *parser, pos int) (int, []*Node, bool) {
	return p.rule(string(r), pos)
}

func (r reference) String() string { return string(r) }

type endOfInput struct{}

// EOI matches only at the end of the input.
func EOI() Expr { return endOfInput{} }

func (endOfInput) match(p *parser, pos int) (int, []*Node, bool) {
	if pos == len(p.src) {
		return pos, nil, true
	}
	p.fail(pos, "end of input")
	return pos, nil, false
}

func (endOfInput) String() string { return "EOI" }

func joinExprs(exprs []Expr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

// refs collects the rule names referenced by e.
func refs(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case reference:
		out[string(v)] = struct{}{}
	case sequence:
		for _, sub := range v {
			refs(sub, out)
		}
	case choice:
		for _, sub := range v {
			refs(sub, out)
		}
	case repeat:
		refs(v.expr, out)
	case lookahead:
		refs(v.expr, out)
	case literal, pattern, endOfInput:
	default:
		panic(fmt.Sprintf("grammar: unknown expression type %T", e))
	}
}
