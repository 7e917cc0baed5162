package commands

import (
	"flag"
	"path/filepath"

	"github.com/erraggy/apish/gotypes"
	"github.com/erraggy/apish/internal/config"
	"github.com/erraggy/apish/internal/fileutil"
	"github.com/erraggy/apish/logger"
	"github.com/erraggy/apish/models"
)

// GoTypesFlags contains flags for the gotypes command
type GoTypesFlags struct {
	Config      string
	PackageName string
	Output      string
	Verbose     bool
}

// SetupGoTypesFlags creates and configures a FlagSet for the gotypes command.
func SetupGoTypesFlags() (*flag.FlagSet, *GoTypesFlags) {
	fs := flag.NewFlagSet("gotypes", flag.ContinueOnError)
	flags := &GoTypesFlags{}

	fs.StringVar(&flags.Config, "config", config.DefaultFile, "project file; a missing default file is ignored")
	fs.StringVar(&flags.PackageName, "p", "", "Go package name (default: models, or gotypes.package from the project file)")
	fs.StringVar(&flags.PackageName, "package", "", "Go package name (default: models, or gotypes.package from the project file)")
	fs.StringVar(&flags.Output, "o", "", "output file (default: gotypes.output from the project file, else stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file (default: gotypes.output from the project file, else stdout)")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose (debug) logging")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apish gotypes [flags] [model-file]\n\n")
		Writef(fs.Output(), "Generate Go structs and enum constants from a model document.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apish gotypes models.apish > models.go\n")
		Writef(fs.Output(), "  apish gotypes -p petstore -o petstore/models.go models.apish\n")
	}
	return fs, flags
}

// HandleGoTypes executes the gotypes command
func HandleGoTypes(args []string) error {
	fs, flags := SetupGoTypesFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}

	cfg, log, err := loadModelProject(flags.Config, flags.Verbose, fs.Args())
	if err != nil {
		return err
	}
	if flags.PackageName != "" {
		cfg.GoTypes.Package = flags.PackageName
	}

	out := flags.Output
	if out == "" && cfg.GoTypes.Output != "" {
		out = cfg.Path(cfg.GoTypes.Output)
	}
	outPath := ""
	if out != "" {
		if outPath, err = ValidateOutputPath(out, cfg.Inputs()); err != nil {
			return err
		}
	}

	m, err := parseModelFile(cfg, log)
	if err != nil {
		return err
	}
	src, err := renderGoTypes(cfg, m, log)
	if err != nil {
		return err
	}
	if err := WriteOutput(outPath, src, fileutil.ReadableByAll); err != nil {
		return err
	}
	if outPath != "" {
		log.Info("wrote go types", "path", outPath, "entities", len(m.Entities), "enums", len(m.Enums))
	}
	return nil
}

func renderGoTypes(cfg *config.Project, m *models.ProjectModel, log logger.Logger) ([]byte, error) {
	pkg := cfg.GoTypes.Package
	if pkg == "" {
		pkg = config.DefaultPackage
	}
	return gotypes.Generate(m,
		gotypes.WithPackageName(pkg),
		gotypes.WithSourceName(filepath.Base(cfg.Models)),
		gotypes.WithLogger(log),
	)
}
