// Command fixtures manages the demo database and loads fixture files into it.
//
// Usage:
//
//	fixtures [-config path] init-db
//	fixtures [-config path] load-fixtures [-watch] [-dry-run] [dir ...]
//	fixtures [-config path] serve [-addr :3000]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filefixtures/internal/app"
	"filefixtures/internal/config"
	"filefixtures/internal/handler"
	"filefixtures/internal/hub"
	"filefixtures/internal/loader"
	"filefixtures/internal/registry"
	"filefixtures/internal/repository/sqlite"
	"filefixtures/internal/service"
	"filefixtures/internal/watcher"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fixtures", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file path (default: search standard locations)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: fixtures [-config path] <init-db|load-fixtures|serve> [flags] [args]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))
	slog.Debug("Configuration loaded", "summary", cfg.Summary())

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "init-db":
		return initDB(ctx, cfg, stdout)
	case "load-fixtures":
		return loadFixtures(ctx, cfg, cmdArgs, stdout, stderr)
	case "serve":
		return serve(ctx, cfg, cmdArgs, stderr)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg, _, err := config.Load()
		return cfg, err
	}

	cfg, _, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openService wires the store, the registry and the loader settings
func openService(cfg *config.Config, bus *service.EventBus) (*service.FixtureService, func() error, error) {
	store, err := sqlite.New(cfg.DatabasePath())
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("Database opened", "path", cfg.DatabasePath())

	reg := registry.New()
	app.Register(reg)

	svc := service.NewFixtureService(store, app.Schema(), cfg.Fixtures.Dir, reg, bus,
		loader.WithOrderFile(cfg.Fixtures.OrderFile))
	return svc, store.Close, nil
}

func initDB(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	svc, closeStore, err := openService(cfg, nil)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := svc.InitDB(ctx); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Initialized database %s\n", cfg.DatabasePath())
	return nil
}

func loadFixtures(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("load-fixtures", flag.ContinueOnError)
	fs.SetOutput(stderr)
	watch := fs.Bool("watch", false, "reset and reload whenever the fixture directories change")
	dryRun := fs.Bool("dry-run", false, "load into memory without touching the database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dirs := fs.Args()

	svc, closeStore, err := openService(cfg, nil)
	if err != nil {
		return err
	}
	defer closeStore()

	load := func(ctx context.Context) (loader.Report, error) {
		if *dryRun {
			report, _, err := svc.DryRun(ctx, dirs...)
			return report, err
		}
		if *watch {
			return svc.Reload(ctx, dirs...)
		}
		return svc.Load(ctx, dirs...)
	}

	report, err := load(ctx)
	if !*watch {
		if err != nil {
			return err
		}
		printReport(stdout, report, *dryRun)
		return nil
	}
	if err != nil {
		slog.Error("Initial load failed", "error", err)
	} else {
		printReport(stdout, report, *dryRun)
	}

	paths, err := svc.Directories(dirs...)
	if err != nil {
		return err
	}
	w := watcher.New(paths, cfg.Fixtures.OrderFile, func(string) {
		report, err := load(ctx)
		if err != nil {
			slog.Error("Reload failed", "error", err)
			return
		}
		printReport(stdout, report, *dryRun)
	})

	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printReport(w io.Writer, r loader.Report, dryRun bool) {
	verb := "Loaded"
	if dryRun {
		verb = "Dry run: would load"
	}
	fmt.Fprintf(w, "%s %d instances from %d files in %d directories\n",
		verb, r.Instances, r.Files, r.Directories)
}

func serve(ctx context.Context, cfg *config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", cfg.Server.Addr, "HTTP listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	bus := service.NewEventBus()
	svc, closeStore, err := openService(cfg, bus)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sseHub := hub.New()
	go sseHub.Run(ctx)

	events := make(chan service.Event, 100)
	bus.Subscribe(events)
	go hub.Forward[service.Event](ctx, sseHub, events)

	mux := http.NewServeMux()
	handler.NewFixtureHandler(svc).Routes(mux)
	mux.Handle("GET /events", sseHub)

	server := &http.Server{
		Addr: *addr,
		Handler: handler.Chain(mux,
			handler.Recover,
			handler.CORS,
			handler.Logger,
		),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", *addr, "fixtures", svc.Root())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
