package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/apish/internal/config"
	"github.com/erraggy/apish/internal/fileutil"
	"github.com/erraggy/apish/logger"
	"github.com/erraggy/apish/openapi"
)

// OpenAPIFlags contains flags for the openapi command
type OpenAPIFlags struct {
	ProjectFlags
	Format      string
	Output      string
	Servers     []string
	NoDeriveIDs bool
	Strict      bool
}

// SetupOpenAPIFlags creates and configures a FlagSet for the openapi command.
func SetupOpenAPIFlags() (*flag.FlagSet, *OpenAPIFlags) {
	fs := flag.NewFlagSet("openapi", flag.ContinueOnError)
	flags := &OpenAPIFlags{}
	flags.Register(fs)

	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Output, "o", "", "output file (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file (default: stdout)")
	fs.Func("server", "server `url`, optionally followed by a space and a description (repeatable)", func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("server url must not be empty")
		}
		flags.Servers = append(flags.Servers, s)
		return nil
	})
	fs.BoolVar(&flags.NoDeriveIDs, "no-derive-ids", false, "leave operationId unset when the document does not name one")
	fs.BoolVar(&flags.Strict, "strict", false, "exit with an error when any reference was dropped")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apish openapi [flags] [api-file]\n\n")
		Writef(fs.Output(), "Generate an OpenAPI 3.0.3 document.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apish openapi -m models.apish api.apish > openapi.json\n")
		Writef(fs.Output(), "  apish openapi -format yaml -o openapi.yaml api.apish\n")
		Writef(fs.Output(), "  apish openapi -server 'https://api.example.com Production' api.apish\n")
	}
	return fs, flags
}

// HandleOpenAPI executes the openapi command
func HandleOpenAPI(args []string) error {
	fs, flags := SetupOpenAPIFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}
	if err := ValidateOutputFormat(flags.Format, FormatJSON, FormatYAML); err != nil {
		return err
	}

	cfg, log, err := flags.Load(fs.Args())
	if err != nil {
		return err
	}

	outPath := ""
	if flags.Output != "" {
		if outPath, err = ValidateOutputPath(flags.Output, cfg.Inputs()); err != nil {
			return err
		}
	}

	result, err := Build(cfg, log)
	if err != nil {
		return err
	}
	PrintIssues(Stderr, result.Issues)

	doc, err := openapi.Generate(result.Project, flags.options(cfg, log)...)
	if err != nil {
		return err
	}
	var data []byte
	if flags.Format == FormatYAML {
		data, err = openapi.MarshalYAML(doc)
	} else {
		data, err = openapi.MarshalJSON(doc)
	}
	if err != nil {
		return err
	}
	if err := WriteOutput(outPath, data, fileutil.OwnerReadWrite); err != nil {
		return err
	}
	if outPath != "" {
		log.Info("wrote openapi document", "path", outPath, "paths", len(doc.Paths))
	}

	if flags.Strict && len(result.Issues) > 0 {
		return fmt.Errorf("%d issue(s) found", len(result.Issues))
	}
	return nil
}

// options merges servers from the project file and the command line. The
// command line wins for operation id derivation.
func (flags *OpenAPIFlags) options(cfg *config.Project, log logger.Logger) []openapi.Option {
	derive := cfg.DeriveOperationIDs() && !flags.NoDeriveIDs
	opts := []openapi.Option{
		openapi.WithDerivedOperationIDs(derive),
		openapi.WithLogger(log),
	}
	for _, s := range cfg.OpenAPI.Servers {
		opts = append(opts, openapi.WithServer(s.URL, s.Description))
	}
	for _, s := range flags.Servers {
		url, desc, _ := strings.Cut(strings.TrimSpace(s), " ")
		opts = append(opts, openapi.WithServer(url, strings.TrimSpace(desc)))
	}
	return opts
}
