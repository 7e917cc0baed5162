package project

import (
	"strings"

	"github.com/erraggy/apish/dslerrors"
	g "github.com/erraggy/apish/grammar"
	"github.com/erraggy/apish/internal/stringutil"
)

var (
	catalogSections = map[string]Section{
		catalogRule(SectionHeaders): SectionHeaders,
		catalogRule(SectionParams):  SectionParams,
		catalogRule(SectionQuery):   SectionQuery,
	}
	groupSections = map[string]Section{
		groupsRule(SectionHeaders):     SectionHeaders,
		groupsRule(SectionParams):      SectionParams,
		groupsRule(SectionQuery):       SectionQuery,
		groupsRule(SectionStatusCodes): SectionStatusCodes,
	}
)

// walker drives a Builder over an API parse tree, strictly left to right.
type walker struct {
	b     *Builder
	kinds map[string]OptionKind
}

func newWalker(b *Builder) *walker {
	return &walker{b: b, kinds: optionKindByRule()}
}

func (w *walker) document(root *g.Node) {
	for _, n := range root.Children {
		if section, ok := catalogSections[n.Rule]; ok {
			w.b.Arguments(section, arguments(n))
			continue
		}
		if section, ok := groupSections[n.Rule]; ok {
			w.b.Groups(section, groups(n))
			continue
		}
		switch n.Rule {
		case ruleTitle:
			w.b.Title(stringutil.Normalize(n.ChildText(ruleHeaderValue)))
		case ruleVersion:
			w.b.Version(stringutil.Normalize(n.ChildText(ruleHeaderValue)))
		case ruleStatusCodes:
			w.b.StatusCodes(statusCodes(n))
		case ruleAPIs:
			w.apis(n)
		}
	}
}

func arguments(n *g.Node) []ArgumentDefinition {
	defs := make([]ArgumentDefinition, 0, len(n.Children))
	for _, item := range n.ChildrenOf(ruleArgument) {
		defs = append(defs, argument(item))
	}
	return defs
}

func argument(n *g.Node) ArgumentDefinition {
	def := ArgumentDefinition{
		Name:        stringutil.Normalize(n.ChildText(ruleArgumentName)),
		Type:        ParseArgumentType(n.ChildText(ruleArgumentType)),
		Description: stringutil.Normalize(n.ChildText(ruleDescription)),
	}
	for _, c := range n.Children {
		switch c.Rule {
		case ruleAlias:
			def.Alias = stringutil.Normalize(c.ChildText(ruleArgumentName))
		case ruleRequired:
			def.Required = true
		case ruleDefault:
			def.DefaultValue = stringutil.Normalize(c.Text[1 : len(c.Text)-1])
		}
	}
	return def
}

func statusCodes(n *g.Node) []StatusCodeDefinition {
	defs := make([]StatusCodeDefinition, 0, len(n.Children))
	for _, item := range n.ChildrenOf(ruleStatusCode) {
		defs = append(defs, StatusCodeDefinition{
			Code:        item.ChildText(ruleCode),
			Description: stringutil.Normalize(item.ChildText(ruleDescription)),
			Retryable:   item.Child(ruleRetryable) != nil,
		})
	}
	return defs
}

func groups(n *g.Node) []ArgumentGroup {
	out := make([]ArgumentGroup, 0, len(n.Children))
	for _, item := range n.ChildrenOf(ruleGroup) {
		grp := ArgumentGroup{ID: item.ChildText(ruleGroupID), Members: []string{}}
		for _, v := range item.ChildrenOf(ruleValue) {
			if m := stringutil.Normalize(v.Text); m != "" {
				grp.Members = append(grp.Members, m)
			}
		}
		out = append(out, grp)
	}
	return out
}

func (w *walker) apis(n *g.Node) {
	for _, ep := range n.ChildrenOf(ruleEndpoint) {
		var path strings.Builder
		for _, seg := range ep.Child(rulePath).ChildrenOf(rulePathSegment) {
			path.WriteString(seg.Text)
		}
		key := path.String()

		w.b.ReplaceEndpoint(key)
		for _, vb := range ep.ChildrenOf(ruleVerbBlock) {
			verb, ok := ParseVerb(vb.ChildText(ruleVerb))
			if !ok {
				// the grammar only admits known verbs
				continue
			}
			w.b.Endpoint(key, verb, w.verbBlock(key, verb, vb))
		}
	}
}

func (w *walker) verbBlock(path string, verb Verb, n *g.Node) *EndpointConfiguration {
	cfg := newEndpointConfiguration()
	cfg.Description = stringutil.Normalize(n.ChildText(ruleDescription))
	for _, c := range n.Children {
		kind, ok := w.kinds[c.Rule]
		if !ok {
			continue
		}
		w.option(cfg, kind, c, "apis."+path+"."+string(verb)+"."+kind.Keyword())
	}
	return cfg
}

func (w *walker) option(cfg *EndpointConfiguration, kind OptionKind, n *g.Node, at string) {
	switch kind {
	case OptionOperation:
		// an empty id leaves the previous one in place
		if id := stringutil.Normalize(n.ChildText(ruleOperationID)); id != "" {
			cfg.OperationID = id
		}
	case OptionExample:
		cfg.Example = stringutil.Normalize(n.ChildText(ruleExampleKey))
	case OptionRequestModel:
		cfg.RequestModel = n.ChildText(ruleModelName)
	case OptionResponseModel:
		cfg.ResponseModel = n.ChildText(ruleModelName)
	case OptionUseCases:
		cfg.UseCases = append(cfg.UseCases, w.items(kind, n, at)...)
	case OptionParams:
		cfg.PathParams = append(cfg.PathParams, w.items(kind, n, at)...)
	case OptionQuery:
		cfg.QueryString = append(cfg.QueryString, w.items(kind, n, at)...)
	case OptionHeaders:
		cfg.Headers = append(cfg.Headers, w.items(kind, n, at)...)
	case OptionTags:
		cfg.Tags = append(cfg.Tags, w.items(kind, n, at)...)
	case OptionProduces:
		cfg.Produces = append(cfg.Produces, w.items(kind, n, at)...)
	case OptionConsumes:
		cfg.Consumes = append(cfg.Consumes, w.items(kind, n, at)...)
	case OptionStatusCodes:
		cfg.StatusCodes = append(cfg.StatusCodes, w.items(kind, n, at)...)
	default:
		w.b.log.Error("unhandled option kind", "kind", int(kind), "at", at)
	}
}

// items returns the list entries of an option node with group references
// expanded against the groups declared so far.
func (w *walker) items(kind OptionKind, n *g.Node, at string) []string {
	var out []string
	for _, c := range n.Children {
		switch c.Rule {
		case ruleValue:
			if v := stringutil.Normalize(c.Text); v != "" {
				out = append(out, v)
			}
		case ruleGroupRef:
			id := strings.TrimPrefix(c.Text, "$")
			section, ok := kind.GroupSection()
			if !ok {
				w.b.warn(at, c.Pos.Line, c.Pos.Column, &dslerrors.ReferenceError{
					Kind: "group", Name: id, Section: kind.Keyword(),
					Message: "option has no group catalog",
				})
				continue
			}
			members, found := w.b.ExpandGroup(section, id)
			if !found {
				w.b.warn(at, c.Pos.Line, c.Pos.Column, &dslerrors.ReferenceError{
					Kind: "group", Name: id, Section: section.GroupsKeyword(),
					Message: "not declared before this point",
				})
				continue
			}
			out = append(out, members...)
		}
	}
	return out
}
