// CLAUDE:SUMMARY CLI entry point for ptdbuild: one-shot build, watch mode, preview server, MCP stdio server.
// Command ptdbuild assembles the deployable game bundle.
//
// Usage:
//
//	ptdbuild                              # build ./ptd.html into ./deploy
//	ptdbuild -config ptdbuild.yaml        # build with a config file
//	ptdbuild -watch                       # build, then rebuild on change
//	ptdbuild -watch -serve :8080          # rebuild on change and serve deploy/
//	ptdbuild -mcp                         # expose build tools over MCP stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/ptdbuild/bundler"
	"github.com/hazyhaar/ptdbuild/kit"
	"github.com/hazyhaar/ptdbuild/preview"
	"github.com/hazyhaar/ptdbuild/watch"
)

const version = "1.0.0"

type options struct {
	configPath string
	root       string
	outDir     string
	watch      bool
	interval   time.Duration
	debounce   time.Duration
	serveAddr  string
	mcp        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to ptdbuild.yaml config file")
	flag.StringVar(&opts.root, "root", "", "project root (default: current directory)")
	flag.StringVar(&opts.outDir, "out", "", "output directory (default: deploy)")
	flag.BoolVar(&opts.watch, "watch", false, "rebuild when inputs change")
	flag.DurationVar(&opts.interval, "interval", 500*time.Millisecond, "watch polling interval")
	flag.DurationVar(&opts.debounce, "debounce", 200*time.Millisecond, "watch debounce window")
	flag.StringVar(&opts.serveAddr, "serve", "", "serve the output directory on this address (e.g. :8080)")
	flag.BoolVar(&opts.mcp, "mcp", false, "serve build tools over MCP stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	logJSON := flag.Bool("log-json", false, "log as JSON instead of text")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// stdout carries the MCP protocol in -mcp mode.
	var out io.Writer = os.Stdout
	if opts.mcp {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(out, handlerOpts)
	if *logJSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, opts); err != nil {
		logger.Error("ptdbuild: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}
	cfg.Logger = logger

	b, err := bundler.New(*cfg)
	if err != nil {
		return err
	}

	if opts.mcp {
		srv := mcp.NewServer(&mcp.Implementation{Name: "ptdbuild", Version: version}, nil)
		b.RegisterMCP(srv)
		logger.Info("ptdbuild: mcp stdio server running")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	_, err = b.Build(ctx)
	if !opts.watch && opts.serveAddr == "" {
		if err == nil {
			logger.Info("finished building, the files are in the output directory", "dir", b.Config().OutputDir)
		}
		return err
	}
	if err != nil {
		// Long-running modes keep going so the next change can fix it.
		logger.Error("ptdbuild: initial build failed", "error", err)
	}

	errCh := make(chan error, 1)

	var w *watch.Watcher
	var serveOpts []preview.Option
	if opts.watch {
		w = watch.New(watch.FileDetector(b.Inputs), watchOptions(opts, logger, err))
		serveOpts = append(serveOpts, preview.WithWatcher(w))
		go w.OnChange(ctx, func() error {
			_, err := b.Build(kit.WithTransport(ctx, kit.TransportWatch))
			return err
		})
	}

	if opts.serveAddr != "" {
		dir := b.Config().OutputDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(b.Config().Root, dir)
		}
		srv := preview.New(b, dir, logger, serveOpts...)
		go func() { errCh <- srv.ListenAndServe(ctx, opts.serveAddr) }()
	}

	select {
	case <-ctx.Done():
		if w != nil {
			s := w.Stats()
			logger.Info("ptdbuild: watch stats",
				"checks", s.Checks, "changes", s.ChangesDetected, "rebuilds", s.Reloads,
				"errors", s.Errors, "avg_rebuild", s.AvgReloadTime)
		}
		logger.Info("ptdbuild: shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

// watchOptions marks the inputs stale when the initial build failed, so the
// watcher retries it without waiting for a file to change.
func watchOptions(opts options, logger *slog.Logger, initialErr error) watch.Options {
	return watch.Options{
		Interval: opts.interval,
		Debounce: opts.debounce,
		Logger:   logger,
		Stale:    initialErr != nil,
	}
}

func resolveConfig(opts options) (*bundler.Config, error) {
	cfg := &bundler.Config{}
	if opts.configPath != "" {
		loaded, err := bundler.LoadConfigFile(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		cfg = loaded
	}
	if opts.root != "" {
		cfg.Root = opts.root
	}
	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	return cfg, nil
}
