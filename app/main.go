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

	"github.com/goodsign/monday"
	"github.com/lysyi3m/sheet-catalog/app/api"
	"github.com/lysyi3m/sheet-catalog/app/catalog"
	"github.com/lysyi3m/sheet-catalog/app/cfg"
	"github.com/lysyi3m/sheet-catalog/app/render"
	"github.com/lysyi3m/sheet-catalog/app/source"
	"github.com/lysyi3m/sheet-catalog/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Sheet Catalog server", "version", appCfg.Version, "source", appCfg.Source)

	synonyms, err := catalog.LoadSynonyms(appCfg.SynonymsFile)
	if err != nil {
		slog.Error("Failed to load header synonyms", "file", appCfg.SynonymsFile, "error", err)
		os.Exit(1)
	}

	reconcile := catalog.Options{
		Normalizer: catalog.NewNormalizer(synonyms),
		Coercer:    catalog.NewDateCoercer(time.Local),
	}

	src, err := newSource(appCfg)
	if err != nil {
		slog.Error("Failed to configure source", "error", err)
		os.Exit(1)
	}

	store := catalog.NewStore(appCfg.LocaleTag())

	scheduler := tasks.NewScheduler(store, src, reconcile, tasks.Options{
		Interval:    appCfg.GetRefreshInterval(),
		WorkerCount: appCfg.WorkerCount,
		MaxRetries:  appCfg.MaxRetries,
		TaskTimeout: appCfg.GetTimeout() * 2,
	})
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.GetRefreshInterval().String())
	scheduler.Start()

	handler := api.NewHandler(store, scheduler,
		render.CardOptions{
			Locale: monday.Locale(appCfg.DateLocale),
			Layout: appCfg.DateLayout,
		},
		render.Channel{
			Title:    "Sheet Catalog",
			Link:     appCfg.BaseUrl,
			SelfURL:  selfURL(appCfg),
			Language: appCfg.Locale,
			Version:  appCfg.Version,
		})
	server := api.NewServer(handler, appCfg.APIAccessKey, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()
	slog.Info("Sheet Catalog server shutdown complete")
}

func newSource(c *cfg.Cfg) (source.Source, error) {
	opts := source.HTTPOptions{
		Client:    &http.Client{Timeout: c.GetTimeout()},
		UserAgent: c.UserAgent,
		Timeout:   c.GetTimeout(),
	}

	switch c.Source {
	case cfg.SourceSheet:
		return source.NewSheetSource(c.SheetID, c.SheetGID, c.SheetURL, opts), nil
	case cfg.SourceBackend:
		return source.NewBackendSource(c.BackendURL, c.BackendToken, opts), nil
	default:
		return nil, fmt.Errorf("unknown source %q", c.Source)
	}
}

func selfURL(c *cfg.Cfg) string {
	if c.BaseUrl != "" {
		return fmt.Sprintf("%s/feed.xml", c.BaseUrl)
	}
	return fmt.Sprintf("http://localhost:%s/feed.xml", c.Port)
}
