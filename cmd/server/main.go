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
	"time"

	"github.com/google/uuid"

	"github.com/your-org/fleetwatch/internal/alerts"
	"github.com/your-org/fleetwatch/internal/api"
	"github.com/your-org/fleetwatch/internal/auth"
	"github.com/your-org/fleetwatch/internal/broadcast"
	"github.com/your-org/fleetwatch/internal/channel"
	"github.com/your-org/fleetwatch/internal/config"
	"github.com/your-org/fleetwatch/internal/observability"
	"github.com/your-org/fleetwatch/internal/ratelimit"
	"github.com/your-org/fleetwatch/internal/registry"
	"github.com/your-org/fleetwatch/internal/session"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting fleetwatch server", "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shared device state: one registry and one session slot per server
	// instance, passed explicitly to every component.
	reg := registry.Seed(time.Now())
	sessions := session.NewManager("system_1")

	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, cfg.RateLimit.SweepInterval)
	go limiter.Run(ctx)

	// Channel gateway with the stubbed admission check. Swap in a real
	// verifier here once credential verification lands.
	hub := channel.NewHub(reg, sessions, channel.AuthFunc(auth.Passthrough()), *cfg)
	go hub.Run()

	broadcaster := broadcast.New(reg, sessions, hub, cfg.Broadcast.Interval)
	go broadcaster.Run(ctx)

	// Optional alert feed from external collaborators.
	if cfg.NATS.URL != "" {
		feed, err := alerts.NewFeed(cfg.NATS.URL, hub)
		if err != nil {
			slog.Error("connect alert feed", "error", err)
			os.Exit(1)
		}
		defer feed.Close()

		if err := feed.EnsureStream(ctx); err != nil {
			slog.Warn("ensure alert stream", "error", err)
		}
		if err := feed.Run(ctx, "fleetwatch-"+uuid.NewString()[:8]); err != nil {
			slog.Warn("start alert feed", "error", err)
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Server:   cfg.Server,
		Registry: reg,
		Sessions: sessions,
		Limiter:  limiter,
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
