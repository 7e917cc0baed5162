// Package grammar is a small packrat PEG engine driven by declarative rule tables.
//
// A [Grammar] is plain immutable data: a start rule plus a list of [Rule]
// values built from expression constructors ([Lit], [Pat], [Seq], [Choice],
// [Star], [Plus], [Opt], [Not], [And], [Ref], [EOI]). Parsing a document
// produces a tree of [Node] values, one per matched non-silent rule, or a
// single *dslerrors.SyntaxError describing the deepest point the grammar
// reached.
//
// # Semantics
//
// Choices are ordered: the first alternative that matches wins and the
// others are never tried. Repetitions are greedy and never give characters
// back. Whitespace and comments are not skipped implicitly; a grammar that
// wants them ignored must say so with its own rules.
//
// Silent rules behave like inlined expressions: they produce no node of
// their own and splice the nodes of the rules they reference into the
// parent. They are the usual home for whitespace, separators and keywords.
//
// # Example
//
//	g, err := grammar.New("list",
//	    grammar.Rule{Name: "list", Expr: grammar.Seq(
//	        grammar.Ref("item"),
//	        grammar.Star(grammar.Seq(grammar.Lit(","), grammar.Ref("item"))),
//	        grammar.EOI(),
//	    )},
//	    grammar.Rule{Name: "item", Expr: grammar.Pat("word", `[a-z]+`)},
//	)
//	if err != nil {
//	    return err
//	}
//	tree, err := g.Parse("a,b,c")
//
// Each call to Parse uses fresh parser state, so a Grammar may be shared
// between goroutines.
package grammar
