package project

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/apish/examples"
	"github.com/erraggy/apish/models"
)

// ArgumentType is the value type of a header, path parameter or query argument.
type ArgumentType int

const (
	// TypeString is also the type of arguments declared without one.
	TypeString ArgumentType = iota
	// TypeNumber is declared as "number".
	TypeNumber
	// TypeBoolean is declared as "bool".
	TypeBoolean
	// TypeUnknown is any other declared type word.
	TypeUnknown
)

// ParseArgumentType maps a type token to an ArgumentType. An empty token
// means TypeString; unrecognised tokens map to TypeUnknown.
func ParseArgumentType(token string) ArgumentType {
	switch strings.TrimSpace(token) {
	case "", "string":
		return TypeString
	case "number":
		return TypeNumber
	case "bool":
		return TypeBoolean
	default:
		return TypeUnknown
	}
}

// String returns the lower-case type name.
func (t ArgumentType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ArgumentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ArgumentDefinition is one entry of the headers, params or query catalog.
type ArgumentDefinition struct {
	Name         string       `json:"name" yaml:"name"`
	Alias        string       `json:"alias,omitempty" yaml:"alias,omitempty"`
	Type         ArgumentType `json:"data_type" yaml:"data_type"`
	Required     bool         `json:"required" yaml:"required"`
	DefaultValue string       `json:"default_value" yaml:"default_value"`
	Description  string       `json:"description" yaml:"description"`
}

// Matches reports whether token names this argument by name or alias.
// token is trimmed before comparing; comparison is case-sensitive.
func (a ArgumentDefinition) Matches(token string) bool {
	token = strings.TrimSpace(token)
	return token != "" && (a.Name == token || a.Alias == token)
}

// ArgumentGroup is a named, ordered list of references.
type ArgumentGroup struct {
	ID      string   `json:"id" yaml:"id"`
	Members []string `json:"members" yaml:"members"`
}

// StatusCodeDefinition describes one HTTP status code.
type StatusCodeDefinition struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
	Retryable   bool   `json:"is_retryable" yaml:"is_retryable"`
}

// Section identifies a catalog and its group catalog.
type Section int

const (
	// SectionHeaders is the headers catalog and headers_groups.
	SectionHeaders Section = iota
	// SectionParams is the params catalog and params_groups.
	SectionParams
	// SectionQuery is the query catalog and query_groups.
	SectionQuery
	// SectionStatusCodes is the status_codes catalog and status_codes_groups.
	SectionStatusCodes
)

// Sections lists every section in declaration order.
var Sections = []Section{SectionHeaders, SectionParams, SectionQuery, SectionStatusCodes}

// String returns the section keyword.
func (s Section) String() string {
	switch s {
	case SectionHeaders:
		return "headers"
	case SectionParams:
		return "params"
	case SectionQuery:
		return "query"
	case SectionStatusCodes:
		return "status_codes"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// GroupsKeyword returns the keyword of the section's group catalog.
func (s Section) GroupsKeyword() string {
	return s.String() + "_groups"
}

// Verb is an HTTP method accepted in the apis block.
type Verb string

// HTTP verbs.
const (
	VerbGet    Verb = "get"
	VerbPost   Verb = "post"
	VerbPut    Verb = "put"
	VerbDelete Verb = "delete"
	VerbPatch  Verb = "patch"
)

// Verbs lists the accepted verbs in output order.
var Verbs = []Verb{VerbGet, VerbPost, VerbPut, VerbDelete, VerbPatch}

// ParseVerb maps a verb token to a Verb, ignoring case.
func ParseVerb(token string) (Verb, bool) {
	v := Verb(strings.ToLower(strings.TrimSpace(token)))
	for _, known := range Verbs {
		if v == known {
			return v, true
		}
	}
	return "", false
}

// EndpointConfiguration is the configuration of one verb of one endpoint.
// Argument, status code, example and model fields hold names; use the
// Resolve methods of Project to turn them into definitions.
type EndpointConfiguration struct {
	Description string   `json:"description" yaml:"description"`
	OperationID string   `json:"operation" yaml:"operation"`
	UseCases    []string `json:"use_cases" yaml:"use_cases"`
	PathParams  []string `json:"path_params" yaml:"path_params"`
	QueryString []string `json:"query_string" yaml:"query_string"`
	Headers     []string `json:"headers" yaml:"headers"`
	Tags        []string `json:"tags" yaml:"tags"`
	StatusCodes []string `json:"status_codes" yaml:"status_codes"`
	// Produces and Consumes hold MIME shorthand tokens as written.
	Produces      []string `json:"produces" yaml:"produces"`
	Consumes      []string `json:"consumes" yaml:"consumes"`
	Example       string   `json:"example" yaml:"example"`
	RequestModel  string   `json:"request_model,omitempty" yaml:"request_model,omitempty"`
	ResponseModel string   `json:"response_model,omitempty" yaml:"response_model,omitempty"`
}

func newEndpointConfiguration() *EndpointConfiguration {
	return &EndpointConfiguration{
		UseCases:    []string{},
		PathParams:  []string{},
		QueryString: []string{},
		Headers:     []string{},
		Tags:        []string{},
		StatusCodes: []string{},
		Produces:    []string{},
		Consumes:    []string{},
	}
}

// Endpoint is one path with at most one configuration per verb.
type Endpoint struct {
	Path           string                          `json:"path" yaml:"path"`
	Configurations map[Verb]*EndpointConfiguration `json:"configurations" yaml:"configurations"`
}

// Configuration returns the configuration for verb, or nil.
func (e *Endpoint) Configuration(verb Verb) *EndpointConfiguration {
	if e == nil {
		return nil
	}
	return e.Configurations[verb]
}

// Verbs returns the configured verbs in the order of the package-level Verbs.
func (e *Endpoint) Verbs() []Verb {
	var out []Verb
	for _, v := range Verbs {
		if _, ok := e.Configurations[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Project is the resolved content of one API document. It is built once
// and must be treated as read-only.
type Project struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`

	Headers []ArgumentDefinition `json:"headers" yaml:"headers"`
	Params  []ArgumentDefinition `json:"params" yaml:"params"`
	Query   []ArgumentDefinition `json:"query" yaml:"query"`

	HeadersGroups     []ArgumentGroup `json:"headers_groups" yaml:"headers_groups"`
	ParamsGroups      []ArgumentGroup `json:"params_groups" yaml:"params_groups"`
	QueryGroups       []ArgumentGroup `json:"query_groups" yaml:"query_groups"`
	StatusCodesGroups []ArgumentGroup `json:"status_codes_groups" yaml:"status_codes_groups"`

	StatusCodes []StatusCodeDefinition `json:"status_codes" yaml:"status_codes"`

	Endpoints map[string]*Endpoint `json:"endpoints" yaml:"endpoints"`

	Examples examples.Bag        `json:"examples" yaml:"examples"`
	Models   *models.ProjectModel `json:"models,omitempty" yaml:"models,omitempty"`
}

func newProject() *Project {
	return &Project{
		Headers:           []ArgumentDefinition{},
		Params:            []ArgumentDefinition{},
		Query:             []ArgumentDefinition{},
		HeadersGroups:     []ArgumentGroup{},
		ParamsGroups:      []ArgumentGroup{},
		QueryGroups:       []ArgumentGroup{},
		StatusCodesGroups: []ArgumentGroup{},
		StatusCodes:       []StatusCodeDefinition{},
		Endpoints:         make(map[string]*Endpoint),
		Examples:          examples.Bag{},
	}
}

// Catalog returns the argument catalog of section. SectionStatusCodes has
// no argument catalog and returns nil.
func (p *Project) Catalog(section Section) []ArgumentDefinition {
	switch section {
	case SectionHeaders:
		return p.Headers
	case SectionParams:
		return p.Params
	case SectionQuery:
		return p.Query
	default:
		return nil
	}
}

// Groups returns the group catalog of section.
func (p *Project) Groups(section Section) []ArgumentGroup {
	switch section {
	case SectionHeaders:
		return p.HeadersGroups
	case SectionParams:
		return p.ParamsGroups
	case SectionQuery:
		return p.QueryGroups
	case SectionStatusCodes:
		return p.StatusCodesGroups
	default:
		return nil
	}
}

// Paths returns the endpoint paths in ascending order.
func (p *Project) Paths() []string {
	paths := make([]string, 0, len(p.Endpoints))
	for path := range p.Endpoints {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}
