package gotypes

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/erraggy/apish/dslerrors"
	"github.com/erraggy/apish/internal/stringutil"
	"github.com/erraggy/apish/logger"
	"github.com/erraggy/apish/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{
		"quote":     strconv.Quote,
		"constList": constList,
	}).
	ParseFS(templateFS, "templates/*.tmpl"))

// scalarTypes maps model type words to Go types. Matching ignores case.
var scalarTypes = map[string]string{
	"string":   "string",
	"str":      "string",
	"number":   "float64",
	"float":    "float32",
	"double":   "float64",
	"int":      "int",
	"int32":    "int32",
	"int64":    "int64",
	"integer":  "int64",
	"bool":     "bool",
	"boolean":  "bool",
	"date":     "string",
	"datetime": "time.Time",
	"uuid":     "string",
	"bytes":    "[]byte",
	"object":   "map[string]any",
	"any":      "any",
}

// Option configures Generate.
type Option func(*generateConfig) error

type generateConfig struct {
	pkg    string
	source string
	log    logger.Logger
}

// WithPackageName sets the package clause. Default: "models".
func WithPackageName(name string) Option {
	return func(cfg *generateConfig) error {
		if !stringutil.IsGoIdentifier(name) || name == "_" {
			return &dslerrors.ConfigError{Option: "package name", Value: name, Message: "not a Go identifier"}
		}
		cfg.pkg = name
		return nil
	}
}

// WithSourceName names the model document in the generated header.
func WithSourceName(name string) Option {
	return func(cfg *generateConfig) error {
		cfg.source = name
		return nil
	}
}

// WithLogger sets the logger. Default: logger.NopLogger.
func WithLogger(l logger.Logger) Option {
	return func(cfg *generateConfig) error {
		cfg.log = logger.OrNop(l)
		return nil
	}
}

type fileData struct {
	Package string
	Source  string
	Enums   []enumData
	Structs []structData
}

type enumData struct {
	Name   string
	Source string
	Values []enumValue
}

type enumValue struct {
	Const string
	Value string
}

type structData struct {
	Name   string
	Source string
	Fields []fieldData
}

type fieldData struct {
	Name    string
	Type    string
	Tag     string
	Comment string
}

// Generate renders one Go source file declaring a string type with
// constants per enum and a struct per entity, in name order.
//
// Field types follow the model's type words: known scalars map to Go
// types, entity and enum names map to the generated types, and anything
// else becomes any. Array fields become slices. A non-array field whose
// type is its own entity becomes a pointer. Fields without the
// "required" marker get omitempty.
func Generate(m *models.ProjectModel, opts ...Option) ([]byte, error) {
	cfg := &generateConfig{pkg: "models", log: logger.NopLogger{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("gotypes: invalid options: %w", err)
		}
	}

	data := fileData{Package: cfg.pkg, Source: cfg.source}
	typeNames := uniqueNamer{}
	goName := make(map[string]string)
	// entities first: they win name clashes as they do for model references
	for _, name := range m.EntityNames() {
		goName[name] = typeNames.name(exportedName(name))
	}
	for _, name := range m.EnumNames() {
		if _, taken := goName[name]; taken {
			cfg.log.Warn("enum shadowed by entity of the same name", "name", name)
			continue
		}
		goName[name] = typeNames.name(exportedName(name))
	}

	for _, name := range m.EnumNames() {
		if m.Kind(name) != models.KindEnum {
			continue
		}
		enum, _ := m.Enum(name)
		data.Enums = append(data.Enums, enumType(goName[name], enum, typeNames))
	}
	for _, name := range m.EntityNames() {
		entity, _ := m.Entity(name)
		data.Structs = append(data.Structs, structType(goName[name], entity, goName))
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "types.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("gotypes: render: %w", err)
	}
	formatted, err := imports.Process("models.go", buf.Bytes(), nil)
	if err != nil {
		cfg.log.Warn("generated code could not be formatted", "error", err)
		return buf.Bytes(), nil //nolint:nilerr // unformatted output is still usable
	}
	cfg.log.Debug("generated go types", "enums", len(data.Enums), "structs", len(data.Structs))
	return formatted, nil
}

func enumType(name string, e models.Enum, typeNames uniqueNamer) enumData {
	out := enumData{Name: name, Source: e.Name}
	seen := make(map[string]bool, len(e.Values))
	for _, v := range e.Values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out.Values = append(out.Values, enumValue{
			Const: typeNames.name(name + exportedName(v)),
			Value: v,
		})
	}
	return out
}

func structType(name string, e models.Entity, goName map[string]string) structData {
	out := structData{Name: name, Source: e.Name}
	fieldNames := uniqueNamer{}
	for _, id := range e.FieldNames() {
		f := e.Fields[id]
		typ := fieldType(f.DataType, goName)
		if f.IsArray {
			typ = "[]" + typ
		} else if typ == name {
			typ = "*" + typ
		}
		tag := id
		if !f.Required() {
			tag += ",omitempty"
		}
		out.Fields = append(out.Fields, fieldData{
			Name:    fieldNames.name(exportedName(id)),
			Type:    typ,
			Tag:     tag,
			Comment: cleanComment(f.Description),
		})
	}
	return out
}

func fieldType(word string, goName map[string]string) string {
	if n, ok := goName[word]; ok {
		return n
	}
	if t, ok := scalarTypes[strings.ToLower(word)]; ok {
		return t
	}
	return "any"
}

func constList(values []enumValue) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.Const
	}
	return strings.Join(names, ", ")
}
