package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/foxseedlab/dailynotes/external/config"
	"github.com/foxseedlab/dailynotes/external/discord"
	"github.com/foxseedlab/dailynotes/external/gmail"
	"github.com/foxseedlab/dailynotes/external/llm"
	repositoryimpl "github.com/foxseedlab/dailynotes/external/repository"
	"github.com/foxseedlab/dailynotes/external/shotgrid"
	webhookimpl "github.com/foxseedlab/dailynotes/external/webhook"
	"github.com/foxseedlab/dailynotes/internal/config"
	"github.com/foxseedlab/dailynotes/internal/httpapi"
	"github.com/foxseedlab/dailynotes/internal/notify"
	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/foxseedlab/dailynotes/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "store", cfg.StoreBackend)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.Provide(injector, func(do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return reg, nil
	})
	repositoryimpl.RegisterDI(injector)
	llm.RegisterDI(injector)
	version.RegisterDI(injector)
	gmail.RegisterDI(injector)
	discord.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	shotgrid.RegisterDI(injector)
	do.Provide(injector, provideNotifyService)
	httpapi.RegisterDI(injector)

	return injector
}

// provideNotifyService assembles delivery from whichever senders are
// configured. Unconfigured adapters resolve to nil and are skipped.
func provideNotifyService(i do.Injector) (*notify.Service, error) {
	var email notify.EmailSender
	if sender := do.MustInvoke[*gmail.Sender](i); sender != nil {
		email = sender
	}
	var publishers []notify.Publisher
	if p := do.MustInvoke[*discord.Publisher](i); p != nil {
		publishers = append(publishers, p)
	}
	if p := do.MustInvoke[*webhookimpl.HTTPSender](i); p != nil {
		publishers = append(publishers, p)
	}
	slog.Info("notes delivery configured", "email", email != nil, "publishers", len(publishers))
	return notify.NewService(email, publishers...), nil
}

func runServer(cfg *config.Config, injector do.Injector) {
	server, err := do.Invoke[*httpapi.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http server", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Handler(),
	}

	done := make(chan struct{})
	go func() {
		slog.Info("startup: listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	if repo, err := do.Invoke[repository.Repository](injector); err == nil {
		if c, ok := repo.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
