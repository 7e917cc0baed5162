package commands

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/apish/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command. It takes no flags;
// the server is configured through APISH_MCP_* environment variables.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apish mcp\n\n")
		Writef(fs.Output(), "Run an MCP (Model Context Protocol) server over stdio.\n\n")
		Writef(fs.Output(), "Tools: compile_api, parse_models, generate_openapi, generate_gotypes\n\n")
		Writef(fs.Output(), "Configuration is read from APISH_MCP_* environment variables, e.g.\n")
		Writef(fs.Output(), "  APISH_MCP_CACHE_ENABLED=false  APISH_MCP_LIST_LIMIT=50\n")
	}
	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
