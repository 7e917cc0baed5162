package project

import (
	"github.com/erraggy/apish/dslerrors"
	"github.com/erraggy/apish/internal/issues"
	"github.com/erraggy/apish/internal/severity"
	"github.com/erraggy/apish/models"
)

// Diagnose lists every reference of every endpoint that resolves to
// nothing. Issues are warnings in path and verb order; they never change
// what the Resolve methods return.
func (p *Project) Diagnose() []issues.Issue {
	var out []issues.Issue
	add := func(at, kind, name, section string) {
		cause := &dslerrors.ReferenceError{Kind: kind, Name: name, Section: section}
		out = append(out, issues.Issue{
			Path:     at,
			Message:  cause.Error(),
			Severity: severity.SeverityWarning,
			Cause:    cause,
		})
	}

	for _, path := range p.Paths() {
		ep := p.Endpoints[path]
		for _, verb := range ep.Verbs() {
			cfg := ep.Configurations[verb]
			at := "apis." + path + "." + string(verb)

			for _, ref := range []struct {
				section Section
				kind    OptionKind
				names   []string
			}{
				{SectionParams, OptionParams, cfg.PathParams},
				{SectionQuery, OptionQuery, cfg.QueryString},
				{SectionHeaders, OptionHeaders, cfg.Headers},
			} {
				for _, name := range ref.names {
					if _, ok := p.ResolveArgument(ref.section, name); !ok {
						add(at+"."+ref.kind.Keyword(), ref.section.String(), name, ref.section.String())
					}
				}
			}

			for _, code := range cfg.StatusCodes {
				if _, ok := p.ResolveStatusCode(code); !ok {
					add(at+".status_codes", "status_code", code, "status_codes")
				}
			}

			if cfg.Example != "" && !p.Examples.Has(cfg.Example) {
				add(at+".example", "example", cfg.Example, "examples")
			}

			for _, m := range []struct {
				kind OptionKind
				name string
			}{
				{OptionRequestModel, cfg.RequestModel},
				{OptionResponseModel, cfg.ResponseModel},
			} {
				if m.name != "" && p.Models.Kind(m.name) == models.KindNone {
					add(at+"."+m.kind.Keyword(), "model", m.name, "models")
				}
			}
		}
	}
	return out
}
