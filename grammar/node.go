package grammar

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Position is a location in a source document.
type Position struct {
	Offset int // 0-based byte offset
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is one matched non-silent rule in a parse tree.
type Node struct {
	// Rule is the name of the rule that produced this node.
	Rule string
	// Text is the exact source text the rule matched.
	Text string
	// Pos is where the match starts.
	Pos Position
	// End is the byte offset just past the match.
	End int
	// Children are the nodes of named rules matched inside this one, in
	// source order.
	Children []*Node
}

// Child returns the first direct child produced by rule, or nil.
func (n *Node) Child(rule string) *Node {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c
		}
	}
	return nil
}

// ChildrenOf returns the direct children produced by rule.
func (n *Node) ChildrenOf(rule string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Rule == rule {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the text of the first direct child produced by rule,
// or "" when there is none.
func (n *Node) ChildText(rule string) string {
	if c := n.Child(rule); c != nil {
		return c.Text
	}
	return ""
}

// Find returns the first node produced by rule in a depth-first, pre-order
// walk of the subtree rooted at n (n included), or nil.
func (n *Node) Find(rule string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Rule == rule {
			found = c
			return false
		}
		return true
	})
	return found
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the children of the node just visited.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// String renders the subtree as an indented outline, one node per line.
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Rule)
	if len(n.Children) == 0 {
		fmt.Fprintf(b, " %q", n.Text)
	}
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.dump(b, indent+1)
	}
}

// lineIndex converts byte offsets to line and column numbers.
type lineIndex struct {
	src    string
	starts []int
}

func newLineIndex(src string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, starts: starts}
}

func (l *lineIndex) position(offset int) Position {
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	col := utf8.RuneCountInString(l.src[l.starts[line]:offset]) + 1
	return Position{Offset: offset, Line: line + 1, Column: col}
}

// Context renders the source lines around line (1-based) with a caret under
// column, in the style of compiler diagnostics. around is the number of
// lines shown before and after.
func Context(src string, line, column, around int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	first := max(1, line-around)
	last := min(len(lines), line+around)
	width := len(fmt.Sprint(last))

	var b strings.Builder
	for i := first; i <= last; i++ {
		text := lines[i-1]
		fmt.Fprintf(&b, "%*d | %s\n", width, i, text)
		if i != line {
			continue
		}
		runes := []rune(text)
		pad := make([]byte, 0, column)
		for j := 0; j < column-1; j++ {
			if j < len(runes) && runes[j] == '\t' {
				pad = append(pad, '\t')
			} else {
				pad = append(pad, ' ')
			}
		}
		fmt.Fprintf(&b, "%*s | %s^\n", width, "", pad)
	}
	return b.String()
}
