package models

import (
	"slices"
	"sort"
)

// Field is one declared field of an entity.
type Field struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	// DataType is the type token as written; it is not checked against
	// known types or other declarations.
	DataType    string `json:"data_type" yaml:"data_type"`
	Description string `json:"description" yaml:"description"`
	// IsArray is set by a leading "[]" on the type.
	IsArray bool `json:"is_array" yaml:"is_array"`
	// Example is the value of the "example" tag, or "".
	Example string            `json:"example" yaml:"example"`
	Markers []string          `json:"markers" yaml:"markers"`
	Tags    map[string]string `json:"tags" yaml:"tags"`
	// AllowedValues lists the values of the enum named by DataType when the
	// same document declares one.
	AllowedValues []string `json:"allowed_values" yaml:"allowed_values"`
}

// HasMarker reports whether marker was declared on the field.
func (f Field) HasMarker(marker string) bool {
	return slices.Contains(f.Markers, marker)
}

// Required reports whether the field carries the "required" marker.
func (f Field) Required() bool {
	return f.HasMarker("required")
}

// Entity is a named object type.
type Entity struct {
	Name   string           `json:"name" yaml:"name"`
	Fields map[string]Field `json:"fields" yaml:"fields"`
}

// FieldNames returns the field identifiers in ascending order.
func (e Entity) FieldNames() []string {
	return sortedKeys(e.Fields)
}

// Enum is a named list of values. Order is kept and duplicates are allowed.
type Enum struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// Kind tells what a model name refers to.
type Kind int

const (
	// KindNone means the name is not declared.
	KindNone Kind = iota
	// KindEntity means the name is an entity.
	KindEntity
	// KindEnum means the name is an enum.
	KindEnum
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindEnum:
		return "enum"
	default:
		return "none"
	}
}

// ProjectModel is the resolved content of one model document.
type ProjectModel struct {
	Entities map[string]Entity `json:"entities" yaml:"entities"`
	Enums    map[string]Enum   `json:"enums" yaml:"enums"`
}

// NewProjectModel returns an empty model, the value used when no model
// document is supplied.
func NewProjectModel() *ProjectModel {
	return &ProjectModel{
		Entities: make(map[string]Entity),
		Enums:    make(map[string]Enum),
	}
}

// Entity returns the entity called name.
func (m *ProjectModel) Entity(name string) (Entity, bool) {
	if m == nil {
		return Entity{}, false
	}
	e, ok := m.Entities[name]
	return e, ok
}

// Enum returns the enum called name.
func (m *ProjectModel) Enum(name string) (Enum, bool) {
	if m == nil {
		return Enum{}, false
	}
	e, ok := m.Enums[name]
	return e, ok
}

// Kind reports what name refers to. Entities win over enums of the same name.
func (m *ProjectModel) Kind(name string) Kind {
	if _, ok := m.Entity(name); ok {
		return KindEntity
	}
	if _, ok := m.Enum(name); ok {
		return KindEnum
	}
	return KindNone
}

// EntityNames returns the entity names in ascending order.
func (m *ProjectModel) EntityNames() []string {
	if m == nil {
		return nil
	}
	return sortedKeys(m.Entities)
}

// EnumNames returns the enum names in ascending order.
func (m *ProjectModel) EnumNames() []string {
	if m == nil {
		return nil
	}
	return sortedKeys(m.Enums)
}

// IsEmpty reports whether the model declares nothing.
func (m *ProjectModel) IsEmpty() bool {
	return m == nil || (len(m.Entities) == 0 && len(m.Enums) == 0)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
