package grammar

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/erraggy/apish/dslerrors"
)

// foundExcerptLen caps the input excerpt carried by a syntax error.
const foundExcerptLen = 24

type memoKey struct {
	rule int
	pos  int
}

type memoEntry struct {
	end   int
	nodes []*Node
	ok    bool
}

type parser struct {
	g        *Grammar
	src      string
	lines    *lineIndex
	memo     map[memoKey]memoEntry
	depth    int
	maxDepth int
	err      error

	// quiet > 0 while inside a lookahead; failures there are not reported
	quiet int
	// stack of named (non-silent) rules being matched
	stack []string

	farthest int
	expected map[string]struct{}
	// failStack is the longest rule path shared by every failure at farthest
	failStack []string
}

func newParser(g *Grammar, src string, maxDepth int) *parser {
	return &parser{
		g:        g,
		src:      src,
		lines:    newLineIndex(src),
		memo:     make(map[memoKey]memoEntry),
		maxDepth: maxDepth,
		farthest: -1,
		expected: make(map[string]struct{}),
	}
}

func (p *parser) rule(name string, pos int) (int, []*Node, bool) {
	if p.err != nil {
		return pos, nil, false
	}
	idx := p.g.index[name]
	r := p.g.rules[idx]

	key := memoKey{rule: idx, pos: pos}
	if p.quiet == 0 {
		if m, ok := p.memo[key]; ok {
			return m.end, m.nodes, m.ok
		}
	}

	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.err = &dslerrors.ResourceLimitError{
			ResourceType: "rule_depth",
			Limit:        int64(p.maxDepth),
			Message:      "while matching " + name,
		}
		return pos, nil, false
	}

	if !r.Silent {
		p.stack = append(p.stack, name)
	}
	end, children, ok := r.Expr.match(p, pos)
	if !r.Silent {
		p.stack = p.stack[:len(p.stack)-1]
	}

	var nodes []*Node
	if ok {
		if r.Silent {
			nodes = children
		} else {
			nodes = []*Node{{
				Rule:     name,
				Text:     p.src[pos:end],
				Pos:      p.lines.position(pos),
				End:      end,
				Children: children,
			}}
		}
	}
	if p.quiet == 0 && p.err == nil {
		p.memo[key] = memoEntry{end: end, nodes: nodes, ok: ok}
	}
	return end, nodes, ok
}

// fail records that want did not match at pos. Only the deepest failure
// position is kept. The reported rule is the innermost one enclosing every
// alternative that failed there.
func (p *parser) fail(pos int, want string) {
	if p.quiet > 0 {
		return
	}
	switch {
	case pos > p.farthest:
		p.farthest = pos
		p.expected = make(map[string]struct{})
		p.failStack = append(p.failStack[:0], p.stack...)
	case pos == p.farthest:
		n := 0
		for n < len(p.failStack) && n < len(p.stack) && p.failStack[n] == p.stack[n] {
			n++
		}
		p.failStack = p.failStack[:n]
	default:
		return
	}
	p.expected[want] = struct{}{}
}

func (p *parser) failRule() string {
	if len(p.failStack) == 0 {
		return ""
	}
	return p.failStack[len(p.failStack)-1]
}

func (p *parser) syntaxError(source string) *dslerrors.SyntaxError {
	pos := max(p.farthest, 0)
	at := p.lines.position(pos)

	expected := make([]string, 0, len(p.expected))
	for want := range p.expected {
		expected = append(expected, want)
	}
	sort.Strings(expected)

	return &dslerrors.SyntaxError{
		Source:   source,
		Line:     at.Line,
		Column:   at.Column,
		Offset:   pos,
		Rule:     p.failRule(),
		Expected: expected,
		Found:    excerpt(p.src[pos:]),
	}
}

func excerpt(rest string) string {
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
		if rest == "" {
			return `\n`
		}
	}
	if utf8.RuneCountInString(rest) > foundExcerptLen {
		runes := []rune(rest)
		rest = string(runes[:foundExcerptLen]) + "..."
	}
	return rest
}
