package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/apish/project"
)

// CompileFlags contains flags for the compile command
type CompileFlags struct {
	ProjectFlags
	Format string
	Quiet  bool
	Strict bool
}

// SetupCompileFlags creates and configures a FlagSet for the compile command.
func SetupCompileFlags() (*flag.FlagSet, *CompileFlags) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	flags := &CompileFlags{}
	flags.Register(fs)

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: tab-separated endpoint rows only")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: tab-separated endpoint rows only")
	fs.BoolVar(&flags.Strict, "strict", false, "exit with an error when any reference was dropped")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apish compile [flags] [api-file]\n\n")
		Writef(fs.Output(), "Compile an API document with its models and examples and list its endpoints.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apish compile api.apish\n")
		Writef(fs.Output(), "  apish compile -m models.apish -e examples.json api.apish\n")
		Writef(fs.Output(), "  apish compile -format json api.apish > project.json\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Compiled (dropped references are reported on stderr)\n")
		Writef(fs.Output(), "  1    Syntax error, unreadable input, or issues found with -strict\n")
	}
	return fs, flags
}

// HandleCompile executes the compile command
func HandleCompile(args []string) error {
	fs, flags := SetupCompileFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, log, err := flags.Load(fs.Args())
	if err != nil {
		return err
	}
	result, err := Build(cfg, log)
	if err != nil {
		return err
	}

	PrintIssues(Stderr, result.Issues)
	if flags.Format != FormatText {
		if err := RenderDetail(Stdout, result.Project, flags.Format); err != nil {
			return err
		}
	} else {
		printCompileSummary(result, flags.Quiet)
	}

	if flags.Strict && len(result.Issues) > 0 {
		return fmt.Errorf("%d issue(s) found", len(result.Issues))
	}
	return nil
}

func printCompileSummary(result *project.Result, quiet bool) {
	p := result.Project
	if !quiet {
		Writef(Stdout, "%s %s\n", orDash(p.Title), orDash(p.Version))
		Writef(Stdout, "Source: %s\n", orDash(result.SourcePath))
		operations := 0
		for _, ep := range p.Endpoints {
			operations += len(ep.Configurations)
		}
		entities, enums := 0, 0
		if p.Models != nil {
			entities, enums = len(p.Models.Entities), len(p.Models.Enums)
		}
		Writef(Stdout, "Paths: %d\n", len(p.Endpoints))
		Writef(Stdout, "Operations: %d\n", operations)
		Writef(Stdout, "Entities: %d\n", entities)
		Writef(Stdout, "Enums: %d\n", enums)
		Writef(Stdout, "Examples: %d\n", len(p.Examples))
		Writef(Stdout, "Issues: %d\n", len(result.Issues))
		Writef(Stdout, "Build Time: %v\n\n", result.BuildTime)
	}

	var rows [][]string
	for _, path := range p.Paths() {
		ep := p.Endpoints[path]
		for _, verb := range ep.Verbs() {
			c := ep.Configuration(verb)
			rows = append(rows, []string{
				strings.ToUpper(string(verb)),
				path,
				c.OperationID,
				strings.Join(c.Tags, ","),
				c.Description,
			})
		}
	}
	RenderSummaryTable(Stdout, []string{"VERB", "PATH", "OPERATION", "TAGS", "DESCRIPTION"}, rows, quiet)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
