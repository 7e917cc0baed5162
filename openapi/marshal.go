package openapi

import (
	"fmt"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// MarshalJSON renders doc as indented JSON. Map keys are sorted, so the same
// document always renders to the same bytes.
func MarshalJSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal json: %w", err)
	}
	return data, nil
}

// MarshalYAML renders doc as YAML with sorted map keys.
func MarshalYAML(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal yaml: %w", err)
	}
	return data, nil
}
