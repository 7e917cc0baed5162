package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apish/internal/fileutil"
	"github.com/erraggy/apish/openapi"
)

type serverEntry struct {
	URL         string `json:"url"                   jsonschema:"Server URL"`
	Description string `json:"description,omitempty" jsonschema:"Server description"`
}

type generateOpenAPIInput struct {
	API            docInput `json:"api"                       jsonschema:"The API document"`
	Models         docInput `json:"models,omitempty"          jsonschema:"The model document (optional)"`
	Examples       docInput `json:"examples,omitempty"        jsonschema:"The examples bag, JSON or YAML (optional)"`
	ExamplesFormat string   `json:"examples_format,omitempty" jsonschema:"Format of inline examples: json, yaml or auto (default auto)"`

	Format             string        `json:"format,omitempty"               jsonschema:"Output format: json (default) or yaml"`
	Servers            []serverEntry `json:"servers,omitempty"              jsonschema:"Server entries to add to the document"`
	DeriveOperationIDs *bool         `json:"derive_operation_ids,omitempty" jsonschema:"Derive missing operationIds from verb and path (default from APISH_MCP_DERIVE_OPERATION_IDS)"`
	Output             string        `json:"output,omitempty"               jsonschema:"File path to write the document to instead of returning it"`
}

type generateOpenAPIOutput struct {
	Version        string         `json:"version"`
	Format         string         `json:"format"`
	PathCount      int            `json:"path_count"`
	OperationCount int            `json:"operation_count"`
	SchemaCount    int            `json:"schema_count"`
	Issues         []issueSummary `json:"issues,omitempty"`
	WrittenTo      string         `json:"written_to,omitempty"`
	Document       string         `json:"document,omitempty"`
}

func handleGenerateOpenAPI(ctx context.Context, _ *mcp.CallToolRequest, input generateOpenAPIInput) (*mcp.CallToolResult, generateOpenAPIOutput, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	switch format {
	case "":
		format = "json"
	case "json", "yaml":
	default:
		return errResult(fmt.Errorf("unknown format %q (want json or yaml)", input.Format)), generateOpenAPIOutput{}, nil
	}

	var outPath string
	if input.Output != "" {
		p, err := checkOutputPath(input.Output)
		if err != nil {
			return errResult(err), generateOpenAPIOutput{}, nil
		}
		outPath = p
	}

	in := buildInput{API: input.API, Models: input.Models, Examples: input.Examples, ExamplesFormat: input.ExamplesFormat}
	result, err := in.build(ctx)
	if err != nil {
		return errResult(err), generateOpenAPIOutput{}, nil
	}

	derive := cfg.DeriveOperationIDs
	if input.DeriveOperationIDs != nil {
		derive = *input.DeriveOperationIDs
	}
	opts := []openapi.Option{openapi.WithDerivedOperationIDs(derive)}
	for _, s := range input.Servers {
		opts = append(opts, openapi.WithServer(s.URL, s.Description))
	}
	doc, err := openapi.Generate(result.Project, opts...)
	if err != nil {
		return errResult(err), generateOpenAPIOutput{}, nil
	}

	var data []byte
	if format == "yaml" {
		data, err = openapi.MarshalYAML(doc)
	} else {
		data, err = openapi.MarshalJSON(doc)
	}
	if err != nil {
		return errResult(err), generateOpenAPIOutput{}, nil
	}

	output := generateOpenAPIOutput{
		Version:   doc.OpenAPI,
		Format:    format,
		PathCount: len(doc.Paths),
		Issues:    summarizeIssues(result),
	}
	for _, item := range doc.Paths {
		output.OperationCount += len(item.Operations())
	}
	if doc.Components != nil {
		output.SchemaCount = len(doc.Components.Schemas)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, data, fileutil.OwnerReadWrite); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), generateOpenAPIOutput{}, nil
		}
		output.WrittenTo = outPath
	} else {
		output.Document = string(data)
	}
	return nil, output, nil
}
