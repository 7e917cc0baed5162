package commands

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erraggy/apish/internal/config"
	"github.com/erraggy/apish/internal/preview"
	"github.com/erraggy/apish/logger"
	"github.com/erraggy/apish/openapi"
	"github.com/erraggy/apish/watch"
)

// ServeFlags contains flags for the serve command
type ServeFlags struct {
	ProjectFlags
	Addr     string
	Debounce time.Duration
	Timeout  time.Duration
	NoWatch  bool
}

// SetupServeFlags creates and configures a FlagSet for the serve command.
func SetupServeFlags() (*flag.FlagSet, *ServeFlags) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags := &ServeFlags{}
	flags.Register(fs)

	fs.StringVar(&flags.Addr, "addr", "", "listen address (default: serve.addr, else "+config.DefaultAddr+")")
	fs.DurationVar(&flags.Debounce, "debounce", -1, "wait this long after the last change before rebuilding (default: watch.debounce, else 100ms)")
	fs.DurationVar(&flags.Timeout, "timeout", -1, "fail a rebuild that takes longer than this; 0 disables (default: watch.timeout)")
	fs.BoolVar(&flags.NoWatch, "no-watch", false, "build once and serve without watching for changes")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apish serve [flags] [api-file]\n\n")
		Writef(fs.Output(), "Serve the latest successful build over HTTP and rebuild on change.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nEndpoints:\n")
		Writef(fs.Output(), "  /openapi.json  /openapi.yaml  /project.json  /status  /healthz  /metrics\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apish serve -m models.apish api.apish\n")
		Writef(fs.Output(), "  apish serve -addr :9090 -config apish.yaml\n")
	}
	return fs, flags
}

// HandleServe executes the serve command
func HandleServe(args []string) error {
	fs, flags := SetupServeFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}

	cfg, log, err := flags.Load(fs.Args())
	if err != nil {
		return err
	}
	if cfg.API == "" {
		return ErrNoAPI
	}
	if flags.Addr != "" {
		cfg.Serve.Addr = flags.Addr
	}
	if flags.Debounce >= 0 {
		cfg.Watch.Debounce = flags.Debounce
	}
	if flags.Timeout >= 0 {
		cfg.Watch.Timeout = flags.Timeout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, log, !flags.NoWatch)
}

// serve runs the preview server, plus a watcher feeding it when watching
// is enabled, until ctx is done.
func serve(ctx context.Context, cfg *config.Project, log logger.Logger, watching bool) error {
	srv := newPreview(cfg, log)
	rebuild := func(context.Context) error {
		result, err := Build(cfg, log)
		if err != nil {
			srv.Fail(err)
			return err
		}
		return srv.Publish(result)
	}

	if !watching {
		if err := rebuild(ctx); err != nil {
			log.Error("initial build failed", "error", err)
		}
		return srv.ListenAndServe(ctx, cfg.Serve.Addr)
	}

	w, err := newWatcher(cfg, log, rebuild, watch.WithOnRebuild(srv.Observe))
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	err = srv.ListenAndServe(ctx, cfg.Serve.Addr)
	cancel()
	if werr := <-done; err == nil {
		err = werr
	}
	return err
}

func newPreview(cfg *config.Project, log logger.Logger) *preview.Server {
	opts := []openapi.Option{openapi.WithDerivedOperationIDs(cfg.DeriveOperationIDs())}
	for _, s := range cfg.OpenAPI.Servers {
		opts = append(opts, openapi.WithServer(s.URL, s.Description))
	}
	return preview.New(preview.WithOpenAPIOptions(opts...), preview.WithLogger(log))
}
