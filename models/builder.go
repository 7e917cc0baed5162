package models

import (
	g "github.com/erraggy/apish/grammar"
	"github.com/erraggy/apish/internal/stringutil"
	"github.com/erraggy/apish/logger"
)

// exampleTag is the tag whose value becomes Field.Example.
const exampleTag = "example"

// builder turns a model parse tree into a ProjectModel.
type builder struct {
	model *ProjectModel
	log   logger.Logger
}

func newBuilder(log logger.Logger) *builder {
	return &builder{model: NewProjectModel(), log: logger.OrNop(log)}
}

func (b *builder) build(root *g.Node) *ProjectModel {
	for _, decl := range root.Children {
		switch decl.Rule {
		case ruleEnum:
			b.enum(decl)
		case ruleEntity:
			b.entity(decl)
		}
	}
	b.linkEnums()
	return b.model
}

func (b *builder) enum(n *g.Node) {
	e := Enum{Name: n.ChildText(ruleName), Values: []string{}}
	for _, v := range n.ChildrenOf(ruleEnumValue) {
		e.Values = append(e.Values, stringutil.Normalize(v.Text))
	}
	if _, dup := b.model.Enums[e.Name]; dup {
		b.log.Debug("enum redeclared", "name", e.Name, "line", n.Pos.Line)
	}
	b.model.Enums[e.Name] = e
}

func (b *builder) entity(n *g.Node) {
	e := Entity{Name: n.ChildText(ruleName), Fields: make(map[string]Field)}
	for _, fn := range n.ChildrenOf(ruleField) {
		f := field(fn)
		if _, dup := e.Fields[f.Identifier]; dup {
			b.log.Debug("field redeclared", "entity", e.Name, "field", f.Identifier, "line", fn.Pos.Line)
		}
		e.Fields[f.Identifier] = f
	}
	if _, dup := b.model.Entities[e.Name]; dup {
		b.log.Debug("entity redeclared", "name", e.Name, "line", n.Pos.Line)
	}
	b.model.Entities[e.Name] = e
}

func field(n *g.Node) Field {
	f := Field{
		Identifier:  n.ChildText(ruleFieldName),
		DataType:    n.ChildText(ruleFieldType),
		Description: stringutil.Normalize(n.ChildText(ruleDescription)),
		IsArray:     n.Child(ruleArray) != nil,
		Markers:     []string{},
		Tags:        make(map[string]string),
	}
	if markers := n.Child(ruleMarkers); markers != nil {
		for _, m := range markers.ChildrenOf(ruleMarker) {
			f.Markers = append(f.Markers, m.Text)
		}
	}
	if tags := n.Child(ruleTags); tags != nil {
		for _, t := range tags.ChildrenOf(ruleTag) {
			f.Tags[t.ChildText(ruleTagKey)] = stringutil.Normalize(t.ChildText(ruleTagValue))
		}
	}
	f.Example = f.Tags[exampleTag]
	return f
}

// linkEnums fills AllowedValues for fields typed by an enum of the same
// document. It runs after the whole tree so declaration order does not matter.
func (b *builder) linkEnums() {
	for name, e := range b.model.Entities {
		for id, f := range e.Fields {
			enum, ok := b.model.Enums[f.DataType]
			if !ok {
				f.AllowedValues = []string{}
				e.Fields[id] = f
				continue
			}
			f.AllowedValues = append([]string{}, enum.Values...)
			e.Fields[id] = f
		}
		b.model.Entities[name] = e
	}
}
