package mcpserver

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseModelsInput struct {
	Models docInput `json:"models"         jsonschema:"The model document to parse"`
	Full   bool     `json:"full,omitempty" jsonschema:"Return the whole model as JSON"`
}

type fieldSummary struct {
	Identifier    string   `json:"identifier"`
	Type          string   `json:"type"`
	Array         bool     `json:"array,omitempty"`
	Required      bool     `json:"required,omitempty"`
	Description   string   `json:"description,omitempty"`
	Example       string   `json:"example,omitempty"`
	AllowedValues []string `json:"allowed_values,omitempty"`
}

type entitySummary struct {
	Name   string         `json:"name"`
	Fields []fieldSummary `json:"fields"`
}

type enumSummary struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type parseModelsOutput struct {
	EntityCount int             `json:"entity_count"`
	EnumCount   int             `json:"enum_count"`
	Entities    []entitySummary `json:"entities,omitempty"`
	Enums       []enumSummary   `json:"enums,omitempty"`
	FullModel   string          `json:"full_model,omitempty"`
}

func handleParseModels(ctx context.Context, _ *mcp.CallToolRequest, input parseModelsInput) (*mcp.CallToolResult, parseModelsOutput, error) {
	m, err := parseModels(ctx, input.Models)
	if err != nil {
		return errResult(err), parseModelsOutput{}, nil
	}

	output := parseModelsOutput{
		EntityCount: len(m.Entities),
		EnumCount:   len(m.Enums),
	}

	output.Entities = makeSlice[entitySummary](len(m.Entities))
	for _, name := range m.EntityNames() {
		e := m.Entities[name]
		summary := entitySummary{Name: name, Fields: make([]fieldSummary, 0, len(e.Fields))}
		for _, id := range e.FieldNames() {
			f := e.Fields[id]
			summary.Fields = append(summary.Fields, fieldSummary{
				Identifier:    f.Identifier,
				Type:          f.DataType,
				Array:         f.IsArray,
				Required:      f.Required(),
				Description:   f.Description,
				Example:       f.Example,
				AllowedValues: f.AllowedValues,
			})
		}
		output.Entities = append(output.Entities, summary)
	}

	output.Enums = makeSlice[enumSummary](len(m.Enums))
	for _, name := range m.EnumNames() {
		output.Enums = append(output.Enums, enumSummary{Name: name, Values: m.Enums[name].Values})
	}

	if input.Full {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return errResult(err), parseModelsOutput{}, nil
		}
		output.FullModel = string(data)
	}
	return nil, output, nil
}
