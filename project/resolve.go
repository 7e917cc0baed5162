package project

import (
	"strconv"
	"strings"

	"github.com/erraggy/apish/examples"
	"github.com/erraggy/apish/lookup"
	"github.com/erraggy/apish/models"
)

// ResolveArgument finds the first catalog entry of section whose name or
// alias equals token. token is trimmed; matching is case-sensitive.
func (p *Project) ResolveArgument(section Section, token string) (ArgumentDefinition, bool) {
	for _, def := range p.Catalog(section) {
		if def.Matches(token) {
			return def, true
		}
	}
	return ArgumentDefinition{}, false
}

func (p *Project) resolveArguments(section Section, names []string) []ArgumentDefinition {
	out := make([]ArgumentDefinition, 0, len(names))
	for _, name := range names {
		if def, ok := p.ResolveArgument(section, name); ok {
			out = append(out, def)
		}
	}
	return out
}

// ResolveHeaders returns the header definitions cfg refers to, in reference
// order. Unresolved names are omitted.
func (p *Project) ResolveHeaders(cfg *EndpointConfiguration) []ArgumentDefinition {
	return p.resolveArguments(SectionHeaders, cfg.Headers)
}

// ResolveQuery returns the query argument definitions cfg refers to.
func (p *Project) ResolveQuery(cfg *EndpointConfiguration) []ArgumentDefinition {
	return p.resolveArguments(SectionQuery, cfg.QueryString)
}

// ResolvePathParams returns the path parameter definitions cfg refers to.
func (p *Project) ResolvePathParams(cfg *EndpointConfiguration) []ArgumentDefinition {
	return p.resolveArguments(SectionParams, cfg.PathParams)
}

// ResolveStatusCode looks code up in the status code catalog, then in the
// built-in table. The first catalog entry wins.
func (p *Project) ResolveStatusCode(code string) (StatusCodeDefinition, bool) {
	code = strings.TrimSpace(code)
	for _, def := range p.StatusCodes {
		if def.Code == code {
			return def, true
		}
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return StatusCodeDefinition{}, false
	}
	if text, ok := lookup.StatusText(n); ok {
		return StatusCodeDefinition{Code: code, Description: text}, true
	}
	return StatusCodeDefinition{}, false
}

// ResolveStatusCodes returns the status code definitions cfg refers to.
func (p *Project) ResolveStatusCodes(cfg *EndpointConfiguration) []StatusCodeDefinition {
	out := make([]StatusCodeDefinition, 0, len(cfg.StatusCodes))
	for _, code := range cfg.StatusCodes {
		if def, ok := p.ResolveStatusCode(code); ok {
			out = append(out, def)
		}
	}
	return out
}

// ResolveProduces returns the media types cfg produces.
func (p *Project) ResolveProduces(cfg *EndpointConfiguration) []string {
	return lookup.ExpandMIMEList(cfg.Produces)
}

// ResolveConsumes returns the media types cfg consumes.
func (p *Project) ResolveConsumes(cfg *EndpointConfiguration) []string {
	return lookup.ExpandMIMEList(cfg.Consumes)
}

// ResolveExamples returns the examples stored under cfg's example key, or
// nil when there is no key or the bag does not hold it.
func (p *Project) ResolveExamples(cfg *EndpointConfiguration) []examples.Example {
	if cfg.Example == "" {
		return nil
	}
	return p.Examples.Get(cfg.Example)
}

// ModelRef is a resolved request or response model.
type ModelRef struct {
	Name string
	Kind models.Kind
}

// ResolveRequestModel returns the model cfg's request refers to.
func (p *Project) ResolveRequestModel(cfg *EndpointConfiguration) (ModelRef, bool) {
	return p.resolveModel(cfg.RequestModel)
}

// ResolveResponseModel returns the model cfg's response refers to.
func (p *Project) ResolveResponseModel(cfg *EndpointConfiguration) (ModelRef, bool) {
	return p.resolveModel(cfg.ResponseModel)
}

func (p *Project) resolveModel(name string) (ModelRef, bool) {
	if name == "" {
		return ModelRef{}, false
	}
	kind := p.Models.Kind(name)
	if kind == models.KindNone {
		return ModelRef{}, false
	}
	return ModelRef{Name: name, Kind: kind}, true
}
