package main

import (
	"fmt"
	"os"

	"github.com/erraggy/apish"
	"github.com/erraggy/apish/cmd/apish/commands"
)

var handlers = map[string]func([]string) error{
	"compile": commands.HandleCompile,
	"openapi": commands.HandleOpenAPI,
	"models":  commands.HandleModels,
	"gotypes": commands.HandleGoTypes,
	"watch":   commands.HandleWatch,
	"serve":   commands.HandleServe,
	"mcp":     commands.HandleMCP,
}

// commandNames lists every command in usage order, for suggestions.
var commandNames = []string{"compile", "openapi", "models", "gotypes", "watch", "serve", "mcp", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	command := args[0]
	switch command {
	case "version", "--version":
		commands.Writef(os.Stdout, "%s\n", apish.BuildInfo())
		return 0
	case "help", "-h", "--help":
		printUsage()
		return 0
	}

	handle, ok := handlers[command]
	if !ok {
		commands.Writef(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			commands.Writef(os.Stderr, "Did you mean '%s'?\n", s)
		}
		commands.Writef(os.Stderr, "\n")
		printUsage()
		return 1
	}
	if err := handle(args[1:]); err != nil {
		commands.Writef(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// suggestCommand returns the command closest to input within an edit
// distance of 2, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Fprint(os.Stderr, `apish - compile API and model documents into OpenAPI and Go types

Usage:
  apish <command> [flags] [file]

Commands:
  compile   Compile an API document and list its endpoints
  openapi   Generate an OpenAPI 3.0.3 document
  models    Parse a model document and list its entities and enums
  gotypes   Generate Go types from a model document
  watch     Rebuild whenever an input document changes
  serve     Serve the latest build over HTTP with live rebuilds
  mcp       Run the MCP server over stdio
  version   Show version information
  help      Show this help

Documents default to those named in ./apish.yaml; APISH_* environment
variables override the file and flags override both.

Run 'apish <command> -h' for more information on a command.
`)
}
