package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apish/gotypes"
	"github.com/erraggy/apish/internal/fileutil"
)

type generateGoTypesInput struct {
	Models  docInput `json:"models"            jsonschema:"The model document"`
	Package string   `json:"package,omitempty" jsonschema:"Go package name (default: models)"`
	Output  string   `json:"output,omitempty"  jsonschema:"File path to write the Go source to instead of returning it"`
}

type generateGoTypesOutput struct {
	PackageName string `json:"package_name"`
	EntityCount int    `json:"entity_count"`
	EnumCount   int    `json:"enum_count"`
	Size        int    `json:"size"`
	WrittenTo   string `json:"written_to,omitempty"`
	Source      string `json:"source,omitempty"`
}

func handleGenerateGoTypes(ctx context.Context, _ *mcp.CallToolRequest, input generateGoTypesInput) (*mcp.CallToolResult, generateGoTypesOutput, error) {
	var outPath string
	if input.Output != "" {
		p, err := checkOutputPath(input.Output)
		if err != nil {
			return errResult(err), generateGoTypesOutput{}, nil
		}
		outPath = p
	}

	m, err := parseModels(ctx, input.Models)
	if err != nil {
		return errResult(err), generateGoTypesOutput{}, nil
	}

	pkg := input.Package
	if pkg == "" {
		pkg = "models"
	}
	opts := []gotypes.Option{gotypes.WithPackageName(pkg)}
	if input.Models.File != "" {
		opts = append(opts, gotypes.WithSourceName(filepath.Base(input.Models.File)))
	}
	src, err := gotypes.Generate(m, opts...)
	if err != nil {
		return errResult(err), generateGoTypesOutput{}, nil
	}

	output := generateGoTypesOutput{
		PackageName: pkg,
		EntityCount: len(m.Entities),
		EnumCount:   len(m.Enums),
		Size:        len(src),
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, src, fileutil.ReadableByAll); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), generateGoTypesOutput{}, nil
		}
		output.WrittenTo = outPath
	} else {
		output.Source = string(src)
	}
	return nil, output, nil
}
