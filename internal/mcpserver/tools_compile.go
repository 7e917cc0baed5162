package mcpserver

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apish/project"
)

type compileInput struct {
	API            docInput `json:"api"                       jsonschema:"The API document"`
	Models         docInput `json:"models,omitempty"          jsonschema:"The model document (optional)"`
	Examples       docInput `json:"examples,omitempty"        jsonschema:"The examples bag, JSON or YAML (optional)"`
	ExamplesFormat string   `json:"examples_format,omitempty" jsonschema:"Format of inline examples: json, yaml or auto (default auto)"`

	Path    string `json:"path,omitempty"     jsonschema:"Filter endpoints by path prefix, or glob where * matches one segment (e.g. /pets/*)"`
	Verb    string `json:"verb,omitempty"     jsonschema:"Filter by verb (get, post, put, delete, patch)"`
	Tag     string `json:"tag,omitempty"      jsonschema:"Filter by tag"`
	Detail  bool   `json:"detail,omitempty"   jsonschema:"Include resolved arguments and status codes for each operation"`
	GroupBy string `json:"group_by,omitempty" jsonschema:"Return counts grouped by tag or verb instead of operations"`
	Full    bool   `json:"full,omitempty"     jsonschema:"Return the whole resolved project as JSON"`
	Offset  int    `json:"offset,omitempty"   jsonschema:"Skip the first N operations"`
	Limit   int    `json:"limit,omitempty"    jsonschema:"Maximum number of operations to return"`
}

type argumentSummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
	Default  string `json:"default,omitempty"`
}

type statusSummary struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Retryable   bool   `json:"retryable,omitempty"`
}

type operationSummary struct {
	Path          string            `json:"path"`
	Verb          string            `json:"verb"`
	OperationID   string            `json:"operation_id,omitempty"`
	Description   string            `json:"description,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Headers       []argumentSummary `json:"headers,omitempty"`
	Query         []argumentSummary `json:"query,omitempty"`
	PathParams    []argumentSummary `json:"path_params,omitempty"`
	StatusCodes   []statusSummary   `json:"status_codes,omitempty"`
	Produces      []string          `json:"produces,omitempty"`
	Consumes      []string          `json:"consumes,omitempty"`
	RequestModel  string            `json:"request_model,omitempty"`
	ResponseModel string            `json:"response_model,omitempty"`
	ExampleCount  int               `json:"example_count,omitempty"`
}

type issueSummary struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

type compileOutput struct {
	Title          string             `json:"title"`
	Version        string             `json:"version"`
	PathCount      int                `json:"path_count"`
	OperationCount int                `json:"operation_count"`
	Matched        int                `json:"matched"`
	Returned       int                `json:"returned"`
	Operations     []operationSummary `json:"operations,omitempty"`
	Groups         []groupCount       `json:"groups,omitempty"`
	EntityCount    int                `json:"entity_count"`
	EnumCount      int                `json:"enum_count"`
	ExampleKeys    []string           `json:"example_keys,omitempty"`
	Issues         []issueSummary     `json:"issues,omitempty"`
	FullProject    string             `json:"full_project,omitempty"`
}

func handleCompileAPI(ctx context.Context, _ *mcp.CallToolRequest, input compileInput) (*mcp.CallToolResult, compileOutput, error) {
	if err := validateGroupBy(input.GroupBy, input.Detail, []string{"tag", "verb"}); err != nil {
		return errResult(err), compileOutput{}, nil
	}
	if err := validateGlobPattern(input.Path); err != nil {
		return errResult(err), compileOutput{}, nil
	}
	var verbFilter project.Verb
	if input.Verb != "" {
		v, ok := project.ParseVerb(input.Verb)
		if !ok {
			return errResult(fmt.Errorf("unknown verb %q", input.Verb)), compileOutput{}, nil
		}
		verbFilter = v
	}

	in := buildInput{API: input.API, Models: input.Models, Examples: input.Examples, ExamplesFormat: input.ExamplesFormat}
	result, err := in.build(ctx)
	if err != nil {
		return errResult(err), compileOutput{}, nil
	}
	p := result.Project

	output := compileOutput{
		Title:       p.Title,
		Version:     p.Version,
		PathCount:   len(p.Endpoints),
		ExampleKeys: p.Examples.Keys(),
		Issues:      summarizeIssues(result),
	}
	if p.Models != nil {
		output.EntityCount = len(p.Models.Entities)
		output.EnumCount = len(p.Models.Enums)
	}

	var matched []operationSummary
	for _, path := range p.Paths() {
		ep := p.Endpoints[path]
		for _, verb := range ep.Verbs() {
			output.OperationCount++
			c := ep.Configuration(verb)
			if !matchPath(input.Path, path) ||
				(verbFilter != "" && verb != verbFilter) ||
				(input.Tag != "" && !slices.Contains(c.Tags, input.Tag)) {
				continue
			}
			matched = append(matched, summarizeOperation(p, path, verb, c, input.Detail))
		}
	}
	output.Matched = len(matched)

	if input.GroupBy != "" {
		output.Groups = groupAndSort(matched, func(op operationSummary) []string {
			if strings.EqualFold(input.GroupBy, "verb") {
				return []string{op.Verb}
			}
			return op.Tags
		})
	} else {
		limit := input.Limit
		if input.Detail {
			limit = detailLimit(limit)
		}
		output.Operations = paginate(matched, input.Offset, limit)
		output.Returned = len(output.Operations)
	}

	if input.Full {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return errResult(err), compileOutput{}, nil
		}
		output.FullProject = string(data)
	}
	return nil, output, nil
}

func summarizeOperation(p *project.Project, path string, verb project.Verb, c *project.EndpointConfiguration, detail bool) operationSummary {
	op := operationSummary{
		Path:        path,
		Verb:        string(verb),
		OperationID: c.OperationID,
		Description: c.Description,
		Tags:        c.Tags,
	}
	if !detail {
		return op
	}
	op.Headers = summarizeArguments(p.ResolveHeaders(c))
	op.Query = summarizeArguments(p.ResolveQuery(c))
	op.PathParams = summarizeArguments(p.ResolvePathParams(c))
	codes := p.ResolveStatusCodes(c)
	op.StatusCodes = makeSlice[statusSummary](len(codes))
	for _, sc := range codes {
		op.StatusCodes = append(op.StatusCodes, statusSummary{Code: sc.Code, Description: sc.Description, Retryable: sc.Retryable})
	}
	op.Produces = p.ResolveProduces(c)
	op.Consumes = p.ResolveConsumes(c)
	if ref, ok := p.ResolveRequestModel(c); ok {
		op.RequestModel = ref.Name
	}
	if ref, ok := p.ResolveResponseModel(c); ok {
		op.ResponseModel = ref.Name
	}
	op.ExampleCount = len(p.ResolveExamples(c))
	return op
}

func summarizeArguments(args []project.ArgumentDefinition) []argumentSummary {
	out := makeSlice[argumentSummary](len(args))
	for _, a := range args {
		out = append(out, argumentSummary{
			Name:     a.Name,
			Type:     a.Type.String(),
			Required: a.Required,
			Default:  a.DefaultValue,
		})
	}
	return out
}

func summarizeIssues(result *project.Result) []issueSummary {
	out := makeSlice[issueSummary](len(result.Issues))
	for _, issue := range result.Issues {
		out = append(out, issueSummary{
			Severity: issue.Severity.String(),
			Path:     issue.Path,
			Message:  issue.Message,
			Line:     issue.Line,
			Column:   issue.Column,
		})
	}
	return out
}
