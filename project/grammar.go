package project

import g "github.com/erraggy/apish/grammar"

// Rule names shared by the grammar table and the tree walker.
const (
	ruleDocument = "api"

	ruleTitle       = "title"
	ruleVersion     = "version"
	ruleHeaderValue = "header_value"

	ruleArgument     = "argument"
	ruleArgumentName = "argument_name"
	ruleArgumentType = "argument_type"
	ruleAlias        = "alias"
	ruleRequired     = "required"
	ruleDefault      = "default_value"
	ruleDescription  = "description"

	ruleStatusCodes = "status_codes"
	ruleStatusCode  = "status_code"
	ruleCode        = "code"
	ruleRetryable   = "retryable"

	ruleGroup   = "group"
	ruleGroupID = "group_id"

	ruleAPIs        = "apis"
	ruleEndpoint    = "endpoint"
	rulePath        = "path"
	rulePathSegment = "path_segment"
	ruleVerbBlock   = "verb_block"
	ruleVerb        = "verb"

	ruleValue       = "value"
	ruleGroupRef    = "group_ref"
	ruleOperationID = "operation_id"
	ruleExampleKey  = "example_key"
	ruleModelName   = "model_name"
)

const (
	stringPattern = `"(?:[^"\\\n]|\\.)*"`
	wordPattern   = `[A-Za-z0-9_.\-]+`
)

// catalogRule returns the rule name of a section's argument or status
// code catalog.
func catalogRule(s Section) string { return s.String() }

// groupsRule returns the rule name of a section's group catalog.
func groupsRule(s Section) string { return s.GroupsKeyword() }

// newGrammar builds the API rule table. A new table is built for every
// document.
func newGrammar() *g.Grammar {
	rules := []g.Rule{
		{Name: ruleDocument, Expr: g.Seq(
			g.Ref("_"),
			g.Star(g.Seq(g.Ref("statement"), g.Ref("_"))),
			g.EOI(),
		)},
		{Name: "statement", Silent: true, Expr: g.Choice(
			g.Ref(ruleTitle),
			g.Ref(ruleVersion),
			// group catalogs first: their keywords extend the catalog keywords
			g.Ref(groupsRule(SectionHeaders)),
			g.Ref(groupsRule(SectionParams)),
			g.Ref(groupsRule(SectionQuery)),
			g.Ref(groupsRule(SectionStatusCodes)),
			g.Ref(catalogRule(SectionHeaders)),
			g.Ref(catalogRule(SectionParams)),
			g.Ref(catalogRule(SectionQuery)),
			g.Ref(ruleStatusCodes),
			g.Ref(ruleAPIs),
		)},

		// title: "Pet Store"
		{Name: ruleTitle, Expr: g.Seq(keyword("title"), g.Ref("sp"), g.Ref(ruleHeaderValue), g.Ref("eol"))},
		{Name: ruleVersion, Expr: g.Seq(keyword("version"), g.Ref("sp"), g.Ref(ruleHeaderValue), g.Ref("eol"))},
		{Name: ruleHeaderValue, Expr: g.Choice(
			g.Pat("string", stringPattern),
			g.Pat("value", `[^\s#"][^\n#]*`),
		)},

		// x-my-auth string alias auth required (none): "Auth token"
		{Name: ruleArgument, Expr: g.Seq(
			g.Ref(ruleArgumentName),
			g.Opt(g.Seq(g.Ref("sp1"), g.Not(g.Ref("modifier_keyword")), g.Ref(ruleArgumentType))),
			g.Star(g.Seq(g.Ref("sp1"), g.Ref("modifier"))),
			g.Ref("sp"), g.Lit(":"), g.Ref("sp"),
			g.Ref(ruleDescription),
		)},
		{Name: ruleArgumentName, Expr: g.Choice(g.Pat("string", stringPattern), g.Pat("name", wordPattern))},
		{Name: ruleArgumentType, Expr: g.Pat("type", `[A-Za-z_][A-Za-z0-9_]*`)},
		{Name: "modifier", Silent: true, Expr: g.Choice(g.Ref(ruleAlias), g.Ref(ruleRequired), g.Ref(ruleDefault))},
		{Name: "modifier_keyword", Silent: true, Expr: g.Seq(
			g.Choice(g.Lit("alias"), g.Lit("required")),
			g.Not(g.Ref("ident_char")),
		)},
		{Name: ruleAlias, Expr: g.Seq(g.Lit("alias"), g.Ref("sp1"), g.Ref(ruleArgumentName))},
		{Name: ruleRequired, Expr: g.Seq(g.Lit("required"), g.Not(g.Ref("ident_char")))},
		{Name: ruleDefault, Expr: g.Seq(g.Lit("("), g.Pat("default value", `[^)\n]*`), g.Lit(")"))},
		{Name: ruleDescription, Expr: g.Pat("quoted description", stringPattern)},

		// 503: "Try again later" retryable
		{Name: ruleStatusCodes, Expr: section("status_codes", ruleStatusCode)},
		{Name: ruleStatusCode, Expr: g.Seq(
			g.Ref(ruleCode), g.Ref("sp"), g.Lit(":"), g.Ref("sp"),
			g.Ref(ruleDescription),
			g.Opt(g.Seq(g.Ref("sp1"), g.Ref(ruleRetryable))),
		)},
		{Name: ruleCode, Expr: g.Seq(g.Pat("status code", `[0-9]{3}`), g.Not(g.Ref("ident_char")))},
		{Name: ruleRetryable, Expr: g.Seq(g.Lit("retryable"), g.Not(g.Ref("ident_char")))},

		// common: [auth, x-request-id]
		{Name: ruleGroup, Expr: g.Seq(
			g.Ref(ruleGroupID), g.Ref("sp"), g.Lit(":"), g.Ref("sp"),
			listOf(g.Ref(ruleValue)),
		)},
		{Name: ruleGroupID, Expr: g.Pat("group id", wordPattern)},

		// apis:
		//   /pets/{id}:
		//     get: "Fetch one pet"
		//       headers: [$common]
		{Name: ruleAPIs, Expr: g.Seq(
			keyword("apis"), g.Ref("eol"),
			g.Star(g.Seq(g.Star(g.Ref("blank")), g.Ref(ruleEndpoint))),
		)},
		{Name: ruleEndpoint, Expr: g.Seq(
			g.Ref("indent"), g.Ref(rulePath), g.Ref("sp"), g.Lit(":"), g.Ref("eol"),
			g.Star(g.Seq(g.Star(g.Ref("blank")), g.Ref(ruleVerbBlock))),
		)},
		{Name: rulePath, Expr: g.Plus(g.Ref(rulePathSegment))},
		{Name: rulePathSegment, Expr: g.Pat("path segment", `/[^\s/:#]*`)},
		{Name: ruleVerbBlock, Expr: g.Seq(
			g.Ref("indent"), g.Ref(ruleVerb), g.Ref("sp"), g.Lit(":"),
			g.Opt(g.Seq(g.Ref("sp"), g.Ref(ruleDescription))),
			g.Ref("eol"),
			g.Star(g.Seq(g.Star(g.Ref("blank")), g.Ref("indent"), g.Ref("option"), g.Ref("eol"))),
		)},
		{Name: ruleVerb, Expr: g.Seq(
			g.Choice(g.LitFold("get"), g.LitFold("post"), g.LitFold("put"), g.LitFold("delete"), g.LitFold("patch")),
			g.Not(g.Ref("ident_char")),
		)},

		{Name: ruleValue, Expr: g.Choice(g.Pat("string", stringPattern), g.Pat("name", `[A-Za-z0-9_.\-/+*{}]+`))},
		{Name: ruleGroupRef, Expr: g.Pat("group reference", `\$`+wordPattern)},
		{Name: ruleOperationID, Expr: g.Pat("operation id", `[^\s#]*`)},
		{Name: ruleExampleKey, Expr: g.Choice(g.Pat("string", stringPattern), g.Pat("example key", `[^\s#,\[\]]+`))},
		{Name: ruleModelName, Expr: g.Pat("model name", `[A-Za-z_][A-Za-z0-9_]*`)},

		// layout
		{Name: "_", Silent: true, Expr: g.Pat("whitespace", `(?:[ \t\r\n]+|#[^\n]*)*`)},
		{Name: "sp", Silent: true, Expr: g.Pat("space", `[ \t]*`)},
		{Name: "sp1", Silent: true, Expr: g.Pat("space", `[ \t]+`)},
		{Name: "indent", Silent: true, Expr: g.Pat("indentation", `[ \t]+`)},
		{Name: "blank", Silent: true, Expr: g.Pat("blank line", `[ \t]*(?:#[^\n]*)?\r?\n`)},
		{Name: "eol", Silent: true, Expr: g.Pat("end of line", `[ \t]*(?:#[^\n]*)?(?:\r?\n|$)`)},
		{Name: "ident_char", Silent: true, Expr: g.Pat("identifier character", `[A-Za-z0-9_\-]`)},
	}

	for _, s := range []Section{SectionHeaders, SectionParams, SectionQuery} {
		rules = append(rules, g.Rule{Name: catalogRule(s), Expr: section(s.String(), ruleArgument)})
	}
	for _, s := range Sections {
		rules = append(rules, g.Rule{Name: groupsRule(s), Expr: section(s.GroupsKeyword(), ruleGroup)})
	}

	// one rule per option kind
	var options []g.Expr
	for _, k := range optionKinds() {
		rules = append(rules, g.Rule{Name: k.rule(), Expr: g.Seq(keyword(k.Keyword()), g.Ref("sp"), optionBody(k))})
		options = append(options, g.Ref(k.rule()))
	}
	rules = append(rules, g.Rule{Name: "option", Silent: true, Expr: g.Choice(options...)})

	return g.MustNew(ruleDocument, rules...)
}

// optionBody returns what follows "keyword:" for an option kind.
func optionBody(k OptionKind) g.Expr {
	switch k {
	case OptionOperation:
		return g.Ref(ruleOperationID)
	case OptionExample:
		return g.Ref(ruleExampleKey)
	case OptionRequestModel, OptionResponseModel:
		return g.Ref(ruleModelName)
	case OptionUseCases, OptionParams, OptionQuery, OptionHeaders, OptionTags,
		OptionProduces, OptionConsumes, OptionStatusCodes:
		return listOf(g.Choice(g.Ref(ruleGroupRef), g.Ref(ruleValue)))
	}
	panic("project: no grammar for option " + k.String())
}

// keyword matches "word" followed by optional blanks and a colon.
func keyword(word string) g.Expr {
	return g.Seq(g.Lit(word), g.Ref("sp"), g.Lit(":"))
}

// section matches "word:" on its own line followed by indented item lines.
func section(word, item string) g.Expr {
	return g.Seq(
		keyword(word), g.Ref("eol"),
		g.Star(g.Seq(g.Star(g.Ref("blank")), g.Ref("indent"), g.Ref(item), g.Ref("eol"))),
	)
}

// listOf matches "[a, b]" (line breaks and a trailing comma allowed) or the
// bare form "a, b".
func listOf(item g.Expr) g.Expr {
	bracketSep := g.Seq(g.Ref("_"), g.Lit(","), g.Ref("_"))
	bareSep := g.Seq(g.Ref("sp"), g.Lit(","), g.Ref("sp"))
	return g.Choice(
		g.Seq(
			g.Lit("["), g.Ref("_"),
			g.Opt(g.Seq(item, g.Star(g.Seq(bracketSep, item)))),
			g.Ref("_"), g.Opt(g.Seq(g.Lit(","), g.Ref("_"))),
			g.Lit("]"),
		),
		g.Seq(item, g.Star(g.Seq(bareSep, item))),
	)
}
