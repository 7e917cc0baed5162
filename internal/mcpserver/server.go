// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the apish compiler as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apish"
)

const serverInstructions = `apish MCP server: compiles apish API and model documents and projects them onto OpenAPI 3.0.3 and Go types.

Every tool takes documents as file, url or content. The API document is required where it applies; models and examples are optional.

Configuration: defaults are set via APISH_MCP_* environment variables in your MCP client config.

Key settings:
- APISH_MCP_CACHE_ENABLED (default: true) - cache build results per session
- APISH_MCP_CACHE_FILE_TTL (default: 15m) - cache TTL when inputs are local files
- APISH_MCP_CACHE_URL_TTL (default: 5m) - cache TTL when an input is fetched from a URL
- APISH_MCP_LIST_LIMIT (default: 100) - default number of endpoints returned by compile_api
- APISH_MCP_MAX_INLINE_SIZE (default: 10MB) - largest inline or fetched document
- APISH_MCP_DERIVE_OPERATION_IDS (default: true) - derive missing operationIds in generate_openapi

Caching: file inputs are keyed by path and modification time, so edits are picked up on the next call. Syntax errors are reported as tool errors with line and column; unresolved references are reported as issues and never fail a call.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		buildCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "apish", Version: apish.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_api",
		Description: "Compile an apish API document, optionally with its model document and examples bag. Returns title, version, every endpoint with its resolved headers, query and path parameters, status codes and models, plus the issues list of dropped references. Use offset/limit to page through endpoints and path to filter by a path prefix. Use full=true for the whole resolved project as JSON.",
	}, handleCompileAPI)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_models",
		Description: "Parse an apish model document. Returns the declared entities with their fields (type, array, required, example) and the enums with their values. Use full=true for the whole model as JSON.",
	}, handleParseModels)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_openapi",
		Description: "Generate an OpenAPI 3.0.3 document from an apish API document plus optional models and examples. format is json (default) or yaml. Use servers to add server entries. Use output to write the document to a file instead of returning it inline.",
	}, handleGenerateOpenAPI)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_gotypes",
		Description: "Generate Go source with one struct per entity and one string type with constants per enum from an apish model document. Use package to set the package name (default models) and output to write the file instead of returning it inline.",
	}, handleGenerateGoTypes)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// detailLimit returns a lower default limit for detail mode output.
// When the user hasn't specified an explicit limit (limit <= 0),
// detail mode defaults to cfg.DetailLimit to keep output manageable.
func detailLimit(limit int) int {
	if limit <= 0 {
		return cfg.DetailLimit
	}
	return limit
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) []string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, key := range keyFn(item) {
			counts[key]++
		}
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateGroupBy checks that group_by is a valid value and is not combined with detail.
func validateGroupBy(groupBy string, detail bool, allowed []string) error {
	if groupBy == "" {
		return nil
	}
	if detail {
		return fmt.Errorf("cannot use both group_by and detail")
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}

// validateGlobPattern checks whether a glob pattern is syntactically valid.
// Call this once before a filter loop so matchPath never encounters an
// invalid pattern at match time.
func validateGlobPattern(pattern string) error {
	if pattern == "" || !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// matchPath reports whether an endpoint path matches pattern. Patterns
// with glob characters use filepath.Match, where * stays within one
// segment; other patterns match as a prefix.
func matchPath(pattern, path string) bool {
	if pattern == "" {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.HasPrefix(path, pattern)
	}
	ok, _ := filepath.Match(pattern, path)
	return ok
}
