package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gradlens/internal/core/config"
	"gradlens/internal/engine/model"
	"gradlens/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./gradlens.toml", "Path to config file")
	modelsDir  = flag.String("models", "", "Path to a model snapshot directory (overrides tooling.snapshot_dir)")
	raw        = flag.Bool("raw", false, "Dump every available model per module instead of resolving")
	browse     = flag.Bool("browse", false, "Browse the resolved project in a terminal UI")
	histMode   = flag.Bool("history", false, "Print recorded resolve runs and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("gradlens v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logOutput := os.Stdout
	if *browse {
		// In browse mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
			logOutput = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *modelsDir != "" {
		cfg.Tooling.SnapshotDir = *modelsDir
	}
	if flag.NArg() > 0 {
		cfg.Paths.ProjectRoot = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.Enabled {
		shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, VERSION)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					slog.Warn("tracing shutdown failed", "error", err)
				}
			}()
		}
	}

	app, err := NewApp(cfg, &model.SnapshotClient{Dir: cfg.Tooling.SnapshotDir})
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}

	switch {
	case *histMode:
		err = app.PrintHistory(os.Stdout)
	case *raw:
		err = app.RunRaw(ctx, os.Stdout)
	default:
		err = app.Run(ctx, *browse)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	// Fall back to defaults when the default config file is simply absent.
	if os.IsNotExist(err) && path == "./gradlens.toml" {
		return config.Default(), nil
	}
	return nil, err
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "gradlens", "gradlens.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "gradlens", "gradlens.log")
	}

	return "gradlens.log"
}
