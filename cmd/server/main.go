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

	"github.com/dgallion1/docedit/internal/api"
	"github.com/dgallion1/docedit/internal/config"
	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/export"
	"github.com/dgallion1/docedit/internal/geometry"
	"github.com/dgallion1/docedit/internal/session"
	"github.com/dgallion1/docedit/internal/spell"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Activate the geometry engine up front; figures retry on first use if
	// this fails.
	gw := geometry.NewGateway(geometry.NewPlanar(), log)
	if !gw.EnsureActive(cfg.GeometryLicenseKey) {
		log.Warn("geometry engine not active", "error_code", gw.LastErrorCode())
	}

	sessions := session.NewStore(cfg.SessionTTL, log)
	go sessions.Run(ctx, cfg.SessionCleanupInterval)

	spellProvider, closeSpell, err := newSpellProvider(cfg, log)
	if err != nil {
		log.Error("spell checker setup failed", "error", err)
		os.Exit(1)
	}

	srv := api.NewServer(api.Deps{
		Sessions: sessions,
		Gateway:  gw,
		Stats:    export.NewStats(cfg.StatsWindow),
		Spell:    spellProvider,
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		closeSpell()
	}()

	log.Info("starting docedit", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newSpellProvider picks the remote spell service when configured, then a
// local word list. With neither, spell checking is disabled.
func newSpellProvider(cfg config.Config, log *slog.Logger) (api.SpellProvider, func(), error) {
	switch {
	case cfg.SpellServiceURL != "":
		client := spell.NewClient(cfg.SpellServiceURL, cfg.SpellServiceAPIKey, log)
		log.Info("using remote spell service", "url", cfg.SpellServiceURL)
		return func(ctx context.Context) doctree.SpellChecker {
			return doctree.SpellCheckerFunc(client.Checker(ctx))
		}, client.Close, nil

	case cfg.DictionaryPath != "":
		f, err := os.Open(cfg.DictionaryPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open dictionary: %w", err)
		}
		defer f.Close()
		dict, err := spell.LoadDictionary(f)
		if err != nil {
			return nil, nil, fmt.Errorf("load dictionary %s: %w", cfg.DictionaryPath, err)
		}
		log.Info("loaded dictionary", "path", cfg.DictionaryPath, "words", dict.Len())
		return func(context.Context) doctree.SpellChecker { return dict }, func() {}, nil

	default:
		log.Info("spell checking disabled")
		return nil, func() {}, nil
	}
}
