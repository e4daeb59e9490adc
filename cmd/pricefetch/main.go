package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JDY-exe/PurePEG-price-fetch/aggregator"
	"github.com/JDY-exe/PurePEG-price-fetch/api"
	"github.com/JDY-exe/PurePEG-price-fetch/catalog"
	"github.com/JDY-exe/PurePEG-price-fetch/commerce"
	"github.com/JDY-exe/PurePEG-price-fetch/config"
	"github.com/JDY-exe/PurePEG-price-fetch/crawler"
	"github.com/JDY-exe/PurePEG-price-fetch/resolver"
	"github.com/JDY-exe/PurePEG-price-fetch/vendors"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("pricefetch starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
	)

	// ── 3. Validate the vendor registry before serving anything ─────
	registry := vendors.Registry()
	if err := vendors.Validate(registry); err != nil {
		slog.Error("vendor registry invalid", "error", err)
		os.Exit(1)
	}
	slog.Info("vendor registry loaded", "vendors", len(registry))

	// ── 4. Load the local product catalog ───────────────────────────
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		slog.Error("failed to load catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	slog.Info("product catalog loaded", "identifiers", cat.Len())

	// ── 5. Wire collaborators ───────────────────────────────────────
	res := resolver.New(cfg.PubChem, cfg.IDCache)
	store := commerce.New(cfg.Store)
	crawl := crawler.New(cfg.Browser, cfg.Crawl)
	agg := aggregator.New(res, res, crawl, store, cat, registry, cfg.Store.BaseURL)

	// ── 6. Setup router and HTTP server ─────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(agg, len(registry), cfg, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete. Crawl sessions are
	// per-request and die with their tasks; nothing else needs draining.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}
	slog.Info("pricefetch stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
