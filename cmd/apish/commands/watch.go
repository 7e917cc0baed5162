package commands

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erraggy/apish/internal/config"
	"github.com/erraggy/apish/internal/fileutil"
	"github.com/erraggy/apish/logger"
	"github.com/erraggy/apish/openapi"
	"github.com/erraggy/apish/project"
	"github.com/erraggy/apish/watch"
)

// WatchFlags contains flags for the watch command
type WatchFlags struct {
	ProjectFlags
	OpenAPIOutput string
	Format        string
	GoTypesOutput string
	PackageName   string
	Debounce      time.Duration
	Timeout       time.Duration
}

// SetupWatchFlags creates and configures a FlagSet for the watch command.
func SetupWatchFlags() (*flag.FlagSet, *WatchFlags) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags := &WatchFlags{}
	flags.Register(fs)

	fs.StringVar(&flags.OpenAPIOutput, "openapi", "", "write the OpenAPI document to this file after every build")
	fs.StringVar(&flags.Format, "format", FormatJSON, "OpenAPI output format: json or yaml")
	fs.StringVar(&flags.GoTypesOutput, "gotypes", "", "write Go types to this file after every build")
	fs.StringVar(&flags.PackageName, "p", "", "Go package name for -gotypes")
	fs.StringVar(&flags.PackageName, "package", "", "Go package name for -gotypes")
	fs.DurationVar(&flags.Debounce, "debounce", -1, "wait this long after the last change before rebuilding (default: watch.debounce, else 100ms)")
	fs.DurationVar(&flags.Timeout, "timeout", -1, "fail a rebuild that takes longer than this; 0 disables (default: watch.timeout)")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apish watch [flags] [api-file]\n\n")
		Writef(fs.Output(), "Rebuild whenever the API, model, or examples document changes.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apish watch -m models.apish api.apish\n")
		Writef(fs.Output(), "  apish watch -openapi openapi.json -gotypes models/models.go api.apish\n")
		Writef(fs.Output(), "\nA failing build is logged and watching continues. Stop with Ctrl-C.\n")
	}
	return fs, flags
}

// HandleWatch executes the watch command
func HandleWatch(args []string) error {
	fs, flags := SetupWatchFlags()
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
	if cfg.API == "" {
		return ErrNoAPI
	}
	flags.applyWatch(cfg)
	if flags.PackageName != "" {
		cfg.GoTypes.Package = flags.PackageName
	}

	outputs := &watchOutputs{cfg: cfg, log: log, format: flags.Format}
	if flags.OpenAPIOutput != "" {
		if outputs.openapi, err = ValidateOutputPath(flags.OpenAPIOutput, cfg.Inputs()); err != nil {
			return err
		}
	}
	if flags.GoTypesOutput != "" {
		if outputs.gotypes, err = ValidateOutputPath(flags.GoTypesOutput, cfg.Inputs()); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newWatcher(cfg, log, outputs.rebuild)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	return w.Run(ctx)
}

// applyWatch lets explicitly set flags win over the project file.
func (flags *WatchFlags) applyWatch(cfg *config.Project) {
	if flags.Debounce >= 0 {
		cfg.Watch.Debounce = flags.Debounce
	}
	if flags.Timeout >= 0 {
		cfg.Watch.Timeout = flags.Timeout
	}
}

func newWatcher(cfg *config.Project, log logger.Logger, rebuild watch.RebuildFunc, opts ...watch.Option) (*watch.Watcher, error) {
	opts = append([]watch.Option{
		watch.WithDebounce(cfg.Watch.Debounce),
		watch.WithTimeout(cfg.Watch.Timeout),
		watch.WithLogger(log),
	}, opts...)
	return watch.New(cfg.Inputs(), rebuild, opts...)
}

// watchOutputs rebuilds the project and rewrites the requested artifacts.
type watchOutputs struct {
	cfg     *config.Project
	log     logger.Logger
	format  string
	openapi string
	gotypes string
}

func (o *watchOutputs) rebuild(ctx context.Context) error {
	result, err := Build(o.cfg, o.log)
	if err != nil {
		return err
	}
	for _, issue := range result.Issues {
		o.log.Warn("dropped reference", "issue", issue.String())
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(o.writeOpenAPI(result), o.writeGoTypes(result))
}

func (o *watchOutputs) writeOpenAPI(result *project.Result) error {
	if o.openapi == "" {
		return nil
	}
	opts := []openapi.Option{openapi.WithDerivedOperationIDs(o.cfg.DeriveOperationIDs())}
	for _, s := range o.cfg.OpenAPI.Servers {
		opts = append(opts, openapi.WithServer(s.URL, s.Description))
	}
	doc, err := openapi.Generate(result.Project, opts...)
	if err != nil {
		return err
	}
	var data []byte
	if o.format == FormatYAML {
		data, err = openapi.MarshalYAML(doc)
	} else {
		data, err = openapi.MarshalJSON(doc)
	}
	if err != nil {
		return err
	}
	return WriteOutput(o.openapi, data, fileutil.OwnerReadWrite)
}

func (o *watchOutputs) writeGoTypes(result *project.Result) error {
	if o.gotypes == "" || o.cfg.Models == "" {
		return nil
	}
	src, err := renderGoTypes(o.cfg, result.Project.Models, o.log)
	if err != nil {
		return err
	}
	return WriteOutput(o.gotypes, src, fileutil.ReadableByAll)
}
