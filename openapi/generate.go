package openapi

import (
	"slices"
	"strings"

	"github.com/erraggy/apish/dslerrors"
	"github.com/erraggy/apish/examples"
	"github.com/erraggy/apish/lookup"
	"github.com/erraggy/apish/project"
)

// defaultResponse documents operations that declare no status codes.
const defaultResponse = "default"

// Generate projects p onto an OpenAPI 3.0.3 document.
//
// Every endpoint verb becomes an operation. Parameters are listed headers
// first, then query arguments, then path parameters, each in reference
// order; references that do not resolve are left out, exactly as the
// Resolve methods of project.Project leave them out.
func Generate(p *project.Project, opts ...Option) (*Document, error) {
	if p == nil {
		return nil, &dslerrors.ConfigError{Option: "project", Message: "project must not be nil"}
	}
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		OpenAPI: Version,
		Info:    &Info{Title: p.Title, Version: p.Version},
		Servers: cfg.servers,
		Paths:   make(map[string]*PathItem, len(p.Endpoints)),
	}

	tags := make(map[string]bool)
	for _, path := range p.Paths() {
		ep := p.Endpoints[path]
		item := &PathItem{}
		for _, verb := range ep.Verbs() {
			op := operation(p, path, verb, ep.Configuration(verb), cfg)
			for _, t := range op.Tags {
				tags[t] = true
			}
			setOperation(item, verb, op)
		}
		doc.Paths[path] = item
	}

	if len(tags) > 0 {
		names := make([]string, 0, len(tags))
		for t := range tags {
			names = append(names, t)
		}
		slices.Sort(names)
		for _, n := range names {
			doc.Tags = append(doc.Tags, &Tag{Name: n})
		}
	}

	if !p.Models.IsEmpty() {
		doc.Components = &Components{Schemas: Schemas(p.Models)}
	}

	cfg.log.Debug("generated openapi document",
		"paths", len(doc.Paths),
		"tags", len(doc.Tags),
	)
	return doc, nil
}

func setOperation(item *PathItem, verb project.Verb, op *Operation) {
	switch verb {
	case project.VerbGet:
		item.Get = op
	case project.VerbPut:
		item.Put = op
	case project.VerbPost:
		item.Post = op
	case project.VerbDelete:
		item.Delete = op
	case project.VerbPatch:
		item.Patch = op
	}
}

func operation(p *project.Project, path string, verb project.Verb, ec *project.EndpointConfiguration, cfg *generateConfig) *Operation {
	op := &Operation{
		Description: ec.Description,
		OperationID: ec.OperationID,
		Responses:   make(map[string]*Response),
	}
	if op.OperationID == "" && cfg.deriveIDs {
		op.OperationID = OperationID(string(verb), path)
	}
	if len(ec.UseCases) > 0 {
		op.Summary = strings.Join(ec.UseCases, "; ")
	}
	if len(ec.Tags) > 0 {
		op.Tags = append([]string(nil), ec.Tags...)
	}

	op.Parameters = append(op.Parameters, parameters(p.ResolveHeaders(ec), InHeader)...)
	op.Parameters = append(op.Parameters, parameters(p.ResolveQuery(ec), InQuery)...)
	op.Parameters = append(op.Parameters, parameters(p.ResolvePathParams(ec), InPath)...)

	samples := p.ResolveExamples(ec)
	op.RequestBody = requestBody(p, ec, samples)

	produces := p.ResolveProduces(ec)
	responseSchema := modelSchema(p.ResolveResponseModel(ec))
	for _, sc := range p.ResolveStatusCodes(ec) {
		resp := &Response{Description: sc.Description}
		if len(produces) > 0 {
			resp.Content = make(map[string]*MediaType, len(produces))
			for _, mime := range produces {
				mt := &MediaType{Schema: responseSchema}
				if isSuccess(sc.Code) {
					mt.Example = firstOf(samples, func(e examples.Example) any { return e.Response })
				}
				resp.Content[mime] = mt
			}
		}
		op.Responses[sc.Code] = resp
	}
	if len(op.Responses) == 0 {
		op.Responses[defaultResponse] = &Response{Description: "Default response"}
	}
	return op
}

func parameters(defs []project.ArgumentDefinition, in string) []*Parameter {
	out := make([]*Parameter, 0, len(defs))
	for _, def := range defs {
		out = append(out, &Parameter{
			Name:        def.Name,
			In:          in,
			Description: def.Description,
			// path parameters are always required
			Required: def.Required || in == InPath,
			Schema:   argumentSchema(def),
		})
	}
	return out
}

// requestBody returns nil when the operation neither consumes a media type
// nor names a request model. A request model without consumes is sent as
// JSON.
func requestBody(p *project.Project, ec *project.EndpointConfiguration, samples []examples.Example) *RequestBody {
	consumes := p.ResolveConsumes(ec)
	ref, ok := p.ResolveRequestModel(ec)
	if len(consumes) == 0 {
		if !ok {
			return nil
		}
		consumes = []string{lookup.ExpandMIME("json")}
	}

	body := &RequestBody{Content: make(map[string]*MediaType, len(consumes)), Required: ok}
	example := firstOf(samples, func(e examples.Example) any { return e.Request })
	for _, mime := range consumes {
		body.Content[mime] = &MediaType{Schema: modelSchema(ref, ok), Example: example}
	}
	return body
}

// firstOf returns the first non-nil side of the examples, normalised.
func firstOf(samples []examples.Example, side func(examples.Example) any) any {
	for _, e := range samples {
		if v := side(e); v != nil {
			return plain(v)
		}
	}
	return nil
}

func isSuccess(code string) bool {
	return len(code) == 3 && code[0] == '2'
}
