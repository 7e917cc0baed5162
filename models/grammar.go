package models

import g "github.com/erraggy/apish/grammar"

// Rule names shared by the grammar table and the builder.
const (
	ruleDocument    = "models"
	ruleEnum        = "enum"
	ruleEntity      = "entity"
	ruleName        = "name"
	ruleEnumValue   = "enum_value"
	ruleField       = "field"
	ruleFieldName   = "field_name"
	ruleArray       = "array"
	ruleFieldType   = "field_type"
	ruleMarkers     = "markers"
	ruleMarker      = "marker"
	ruleTags        = "tags"
	ruleTag         = "tag"
	ruleTagKey      = "tag_key"
	ruleTagValue    = "tag_value"
	ruleDescription = "description"
)

const (
	identPattern  = `[A-Za-z_][A-Za-z0-9_]*`
	stringPattern = `"(?:[^"\\\n]|\\.)*"`
)

// newGrammar builds the model rule table. A new table is built for every
// document.
func newGrammar() *g.Grammar {
	return g.MustNew(ruleDocument,
		g.Rule{Name: ruleDocument, Expr: g.Seq(
			g.Ref("_"),
			g.Star(g.Seq(g.Choice(g.Ref(ruleEnum), g.Ref(ruleEntity)), g.Ref("_"))),
			g.EOI(),
		)},

		// enum Mood { happy, mad "very sad" }
		g.Rule{Name: ruleEnum, Expr: g.Seq(
			g.Lit("enum"), g.Ref("__"), g.Ref(ruleName), g.Ref("_"),
			g.Lit("{"), g.Ref("_"),
			g.Star(g.Seq(g.Ref(ruleEnumValue), g.Ref("_"), g.Opt(g.Seq(g.Lit(","), g.Ref("_"))))),
			g.Lit("}"),
		)},
		g.Rule{Name: ruleEnumValue, Expr: g.Choice(
			g.Pat("string", stringPattern),
			g.Pat("enum value", `[A-Za-z0-9_.\-]+`),
		)},

		// type Person { name: string [required] {example: x} "Name" }
		g.Rule{Name: ruleEntity, Expr: g.Seq(
			g.Choice(g.Lit("type"), g.Lit("entity")), g.Ref("__"), g.Ref(ruleName), g.Ref("_"),
			g.Lit("{"), g.Ref("_"),
			g.Star(g.Seq(g.Ref(ruleField), g.Ref("_"))),
			g.Lit("}"),
		)},
		g.Rule{Name: ruleField, Expr: g.Seq(
			g.Ref(ruleFieldName), g.Ref("sp"), g.Lit(":"), g.Ref("sp"),
			g.Opt(g.Ref(ruleArray)), g.Ref(ruleFieldType), g.Ref("sp"),
			g.Opt(g.Seq(g.Ref(ruleMarkers), g.Ref("sp"))),
			g.Opt(g.Seq(g.Ref(ruleTags), g.Ref("sp"))),
			g.Ref(ruleDescription),
		)},
		g.Rule{Name: ruleFieldName, Expr: g.Pat("field name", `[A-Za-z_][A-Za-z0-9_\-]*`)},
		g.Rule{Name: ruleArray, Expr: g.Lit("[]")},
		g.Rule{Name: ruleFieldType, Expr: g.Pat("type", `[A-Za-z_][A-Za-z0-9_.]*`)},
		g.Rule{Name: ruleMarkers, Expr: g.Seq(
			g.Lit("["), g.Ref("_"),
			g.Star(g.Seq(g.Ref(ruleMarker), g.Ref("_"), g.Opt(g.Lit(",")), g.Ref("_"))),
			g.Lit("]"),
		)},
		g.Rule{Name: ruleMarker, Expr: g.Pat("marker", `[A-Za-z0-9_\-]+`)},
		g.Rule{Name: ruleTags, Expr: g.Seq(
			g.Lit("{"), g.Ref("_"),
			g.Star(g.Seq(g.Ref(ruleTag), g.Ref("_"), g.Opt(g.Lit(",")), g.Ref("_"))),
			g.Lit("}"),
		)},
		g.Rule{Name: ruleTag, Expr: g.Seq(g.Ref(ruleTagKey), g.Ref("sp"), g.Lit(":"), g.Ref("sp"), g.Ref(ruleTagValue))},
		g.Rule{Name: ruleTagKey, Expr: g.Pat("tag key", `[A-Za-z_][A-Za-z0-9_\-]*`)},
		g.Rule{Name: ruleTagValue, Expr: g.Choice(
			g.Pat("string", stringPattern),
			g.Pat("tag value", `[^\s,}"]+`),
		)},
		g.Rule{Name: ruleDescription, Expr: g.Pat("description", stringPattern)},
		g.Rule{Name: ruleName, Expr: g.Pat("identifier", identPattern)},

		// whitespace and comments, newlines included
		g.Rule{Name: "_", Silent: true, Expr: g.Pat("whitespace", `(?:[ \t\r\n]+|#[^\n]*)*`)},
		// at least one blank after a keyword
		g.Rule{Name: "__", Silent: true, Expr: g.Pat("space", `[ \t]+`)},
		// blanks within a line
		g.Rule{Name: "sp", Silent: true, Expr: g.Pat("space", `[ \t]*`)},
	)
}
