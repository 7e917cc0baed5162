package openapi

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/erraggy/apish/models"
	"github.com/erraggy/apish/project"
)

// primitive maps model type words to schema type and format.
var primitive = map[string][2]string{
	"string":   {"string", ""},
	"str":      {"string", ""},
	"number":   {"number", ""},
	"float":    {"number", "float"},
	"double":   {"number", "double"},
	"int":      {"integer", "int32"},
	"int32":    {"integer", "int32"},
	"int64":    {"integer", "int64"},
	"integer":  {"integer", ""},
	"bool":     {"boolean", ""},
	"boolean":  {"boolean", ""},
	"date":     {"string", "date"},
	"datetime": {"string", "date-time"},
	"uuid":     {"string", "uuid"},
	"object":   {"object", ""},
	"any":      {"", ""},
}

// Schemas converts every entity and enum of m into a component schema.
// An enum that shares its name with an entity is skipped: the entity wins,
// as it does for model references.
func Schemas(m *models.ProjectModel) map[string]*Schema {
	out := make(map[string]*Schema)
	for _, name := range m.EntityNames() {
		entity, _ := m.Entity(name)
		out[name] = entitySchema(m, entity)
	}
	for _, name := range m.EnumNames() {
		if _, taken := out[name]; taken {
			continue
		}
		enum, _ := m.Enum(name)
		out[name] = enumSchema(enum.Values)
	}
	return out
}

func entitySchema(m *models.ProjectModel, e models.Entity) *Schema {
	s := &Schema{Type: "object", Properties: make(map[string]*Schema, len(e.Fields))}
	for _, name := range e.FieldNames() {
		f := e.Fields[name]
		s.Properties[name] = fieldSchema(m, f)
		if f.Required() {
			s.Required = append(s.Required, name)
		}
	}
	return s
}

func enumSchema(values []string) *Schema {
	s := &Schema{Type: "string"}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		s.Enum = append(s.Enum, v)
	}
	return s
}

func fieldSchema(m *models.ProjectModel, f models.Field) *Schema {
	item := typeSchema(m, f.DataType)
	if format := f.Tags["format"]; format != "" && item.Ref == "" {
		item.Format = format
	}
	if f.Example != "" && item.Ref == "" {
		item.Example = scalar(item.Type, f.Example)
	}

	s := item
	if f.IsArray {
		s = &Schema{Type: "array", Items: item}
	}
	if f.Description == "" {
		return s
	}
	if s.Ref != "" {
		// siblings of $ref are ignored in 3.0
		return &Schema{AllOf: []*Schema{s}, Description: f.Description}
	}
	s.Description = f.Description
	return s
}

// typeSchema returns the schema for a type word: a primitive, a reference
// to a declared entity or enum, or a plain string with the word as format.
func typeSchema(m *models.ProjectModel, word string) *Schema {
	if m.Kind(word) != models.KindNone {
		return &Schema{Ref: SchemaRef(word)}
	}
	if p, ok := primitive[strings.ToLower(word)]; ok {
		return &Schema{Type: p[0], Format: p[1]}
	}
	return &Schema{Type: "string", Format: word}
}

// argumentSchema returns the schema of a header, query or path parameter.
func argumentSchema(def project.ArgumentDefinition) *Schema {
	s := &Schema{Type: "string"}
	switch def.Type {
	case project.TypeNumber:
		s.Type = "number"
	case project.TypeBoolean:
		s.Type = "boolean"
	}
	if def.DefaultValue != "" {
		s.Default = scalar(s.Type, def.DefaultValue)
	}
	return s
}

// modelSchema returns a reference to a resolved model, or the plain string
// schema used for bodies without one.
func modelSchema(ref project.ModelRef, ok bool) *Schema {
	if !ok {
		return &Schema{Type: "string"}
	}
	return &Schema{Ref: SchemaRef(ref.Name)}
}

// scalar converts a literal to the Go value matching schemaType. Literals
// that do not parse stay strings.
func scalar(schemaType, literal string) any {
	switch schemaType {
	case "number":
		if f, err := strconv.ParseFloat(literal, 64); err == nil {
			return f
		}
	case "integer":
		if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return n
		}
	case "boolean":
		if b, err := strconv.ParseBool(literal); err == nil {
			return b
		}
	}
	return literal
}

// plain rewrites decoded example values so that every encoder renders them
// the same way: JSON numbers become int64 or float64.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}
