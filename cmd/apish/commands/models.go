package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/apish/internal/config"
	"github.com/erraggy/apish/logger"
	"github.com/erraggy/apish/models"
)

// ModelsFlags contains flags for the models command
type ModelsFlags struct {
	Config  string
	Format  string
	Quiet   bool
	Verbose bool
}

// SetupModelsFlags creates and configures a FlagSet for the models command.
func SetupModelsFlags() (*flag.FlagSet, *ModelsFlags) {
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	flags := &ModelsFlags{}

	fs.StringVar(&flags.Config, "config", config.DefaultFile, "project file; a missing default file is ignored")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: tab-separated field rows only")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: tab-separated field rows only")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose (debug) logging")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apish models [flags] [model-file]\n\n")
		Writef(fs.Output(), "Parse a model document and list its entities and enums.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apish models models.apish\n")
		Writef(fs.Output(), "  apish models -format yaml models.apish\n")
	}
	return fs, flags
}

// HandleModels executes the models command
func HandleModels(args []string) error {
	fs, flags := SetupModelsFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, log, err := loadModelProject(flags.Config, flags.Verbose, fs.Args())
	if err != nil {
		return err
	}
	m, err := parseModelFile(cfg, log)
	if err != nil {
		return err
	}

	if flags.Format != FormatText {
		return RenderDetail(Stdout, m, flags.Format)
	}
	printModels(m, flags.Quiet)
	return nil
}

var errNoModels = fmt.Errorf("no model document: pass a file or set 'models' in %s", config.DefaultFile)

// loadModelProject loads the project configuration for commands whose
// positional argument is the model document rather than the API document.
func loadModelProject(configPath string, verbose bool, args []string) (*config.Project, logger.Logger, error) {
	if len(args) > 1 {
		return nil, nil, fmt.Errorf("expected at most one model document, got %d", len(args))
	}
	pf := ProjectFlags{Config: configPath, Verbose: verbose}
	if len(args) == 1 {
		pf.Models = args[0]
	}
	cfg, log, err := pf.Load(nil)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Models == "" {
		return nil, nil, errNoModels
	}
	return cfg, log, nil
}

func parseModelFile(cfg *config.Project, log logger.Logger) (*models.ProjectModel, error) {
	path := cfg.Path(cfg.Models)
	m, err := models.ParseWithOptions(
		models.WithFilePath(path),
		models.WithMaxDocumentSize(cfg.MaxDocumentSize),
		models.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	log.Debug("parsed model document", "path", path, "entities", len(m.Entities), "enums", len(m.Enums))
	return m, nil
}

func printModels(m *models.ProjectModel, quiet bool) {
	if !quiet {
		Writef(Stdout, "Entities: %d\n", len(m.Entities))
		Writef(Stdout, "Enums: %d\n\n", len(m.Enums))
	}

	var rows [][]string
	for _, name := range m.EntityNames() {
		e, _ := m.Entity(name)
		for _, id := range e.FieldNames() {
			f := e.Fields[id]
			typ := f.DataType
			if f.IsArray {
				typ = "[]" + typ
			}
			rows = append(rows, []string{name, id, typ, strings.Join(f.Markers, ","), f.Description})
		}
	}
	RenderSummaryTable(Stdout, []string{"ENTITY", "FIELD", "TYPE", "MARKERS", "DESCRIPTION"}, rows, quiet)

	if quiet || len(m.Enums) == 0 {
		return
	}
	Writef(Stdout, "\n")
	rows = rows[:0]
	for _, name := range m.EnumNames() {
		e, _ := m.Enum(name)
		rows = append(rows, []string{name, strings.Join(e.Values, ", ")})
	}
	RenderSummaryTable(Stdout, []string{"ENUM", "VALUES"}, rows, false)
}
