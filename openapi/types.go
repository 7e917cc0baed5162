package openapi

// Version is the OpenAPI version every generated document declares.
const Version = "3.0.3"

// Document is an OpenAPI 3.0.3 document. Only the objects a Project can
// populate are modelled.
type Document struct {
	OpenAPI    string               `yaml:"openapi" json:"openapi"`
	Info       *Info                `yaml:"info" json:"info"`
	Servers    []*Server            `yaml:"servers,omitempty" json:"servers,omitempty"`
	Paths      map[string]*PathItem `yaml:"paths" json:"paths"`
	Components *Components          `yaml:"components,omitempty" json:"components,omitempty"`
	Tags       []*Tag               `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Info carries the document title and version.
type Info struct {
	Title   string `yaml:"title" json:"title"`
	Version string `yaml:"version" json:"version"`
}

// Server is a base URL the API is served from.
type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Tag groups operations.
type Tag struct {
	Name string `yaml:"name" json:"name"`
}

// Components holds the schemas generated from the model document.
type Components struct {
	Schemas map[string]*Schema `yaml:"schemas,omitempty" json:"schemas,omitempty"`
}

// PathItem holds the operations of one path. Field order is the output order.
type PathItem struct {
	Get    *Operation `yaml:"get,omitempty" json:"get,omitempty"`
	Put    *Operation `yaml:"put,omitempty" json:"put,omitempty"`
	Post   *Operation `yaml:"post,omitempty" json:"post,omitempty"`
	Delete *Operation `yaml:"delete,omitempty" json:"delete,omitempty"`
	Patch  *Operation `yaml:"patch,omitempty" json:"patch,omitempty"`
}

// Operations returns the non-nil operations keyed by lower-case method.
func (p *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation)
	if p == nil {
		return ops
	}
	for method, op := range map[string]*Operation{
		"get": p.Get, "put": p.Put, "post": p.Post, "delete": p.Delete, "patch": p.Patch,
	} {
		if op != nil {
			ops[method] = op
		}
	}
	return ops
}

// Operation describes one verb of one path.
type Operation struct {
	Tags        []string             `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary     string               `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string               `yaml:"description,omitempty" json:"description,omitempty"`
	OperationID string               `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters  []*Parameter         `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody         `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   map[string]*Response `yaml:"responses" json:"responses"`
}

// Parameter is a header, query or path parameter.
type Parameter struct {
	Name        string  `yaml:"name" json:"name"`
	In          string  `yaml:"in" json:"in"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Parameter locations.
const (
	InHeader = "header"
	InQuery  = "query"
	InPath   = "path"
)

// RequestBody describes the payload an operation consumes.
type RequestBody struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content" json:"content"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
}

// Response describes one status code of an operation.
type Response struct {
	Description string                `yaml:"description" json:"description"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

// MediaType pairs a schema with an optional example for one content type.
type MediaType struct {
	Schema  *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example any     `yaml:"example,omitempty" json:"example,omitempty"`
}

// Schema is the subset of the OpenAPI 3.0 schema object generated from
// argument types and model documents.
type Schema struct {
	Ref         string             `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Type        string             `yaml:"type,omitempty" json:"type,omitempty"`
	Format      string             `yaml:"format,omitempty" json:"format,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any                `yaml:"default,omitempty" json:"default,omitempty"`
	Example     any                `yaml:"example,omitempty" json:"example,omitempty"`
	Enum        []any              `yaml:"enum,omitempty" json:"enum,omitempty"`
	Items       *Schema            `yaml:"items,omitempty" json:"items,omitempty"`
	Properties  map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required    []string           `yaml:"required,omitempty" json:"required,omitempty"`
	AllOf       []*Schema          `yaml:"allOf,omitempty" json:"allOf,omitempty"`
}

// SchemaRef returns the reference to a component schema.
func SchemaRef(name string) string {
	return "#/components/schemas/" + name
}
