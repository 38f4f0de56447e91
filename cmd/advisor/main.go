package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/wifiadvisor/wifiadvisor/internal/advisor"
	"github.com/wifiadvisor/wifiadvisor/internal/api"
	"github.com/wifiadvisor/wifiadvisor/internal/config"
	"github.com/wifiadvisor/wifiadvisor/internal/health"
	"github.com/wifiadvisor/wifiadvisor/internal/notify"
	"github.com/wifiadvisor/wifiadvisor/internal/orchestrator"
	"github.com/wifiadvisor/wifiadvisor/internal/scan"
	"github.com/wifiadvisor/wifiadvisor/internal/view"
	"github.com/wifiadvisor/wifiadvisor/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("wifiadvisor starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"scanner", cfg.Advisor.Scanner.Type,
		"scan_interval", cfg.Advisor.ScanInterval,
		"probe", cfg.Advisor.Health.Probe,
		"http_port", cfg.Advisor.HTTPPort,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source, err := scan.New(cfg.Advisor.Scanner)
	if err != nil {
		slog.Error("failed to build scan source", "err", err)
		os.Exit(1)
	}

	monitor, err := health.NewMonitor(cfg.Advisor.Health)
	if err != nil {
		slog.Error("failed to build health monitor", "err", err)
		os.Exit(1)
	}
	go monitor.Run(ctx)

	store := view.NewStore()
	dispatcher := notify.NewDispatcher(cfg.Advisor.Notify)
	debouncer := advisor.NewDebouncer(cfg.Advisor.Notify.RenotifyAfter)

	orch := orchestrator.New(
		source,
		monitor,
		store,
		debouncer,
		dispatcher,
		advisor.PolicyFromConfig(cfg.Advisor.Scoring),
		cfg.Advisor.ScanInterval,
	)
	go orch.Run(ctx)

	// Watch config file for hot-reload. Scoring policy changes apply to
	// the running loop; scanner/probe rebuilds still require a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			orch.SetPolicy(advisor.PolicyFromConfig(updated.Advisor.Scoring))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// WebSocket hub; pushes every published state to connected clients.
	hub := ws.New(store)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(store, orch, monitor))
	httpMux.Handle("/ws/stream", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Advisor.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Advisor.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("wifiadvisor shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
