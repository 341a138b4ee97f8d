package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/shopadmin/internal/api"
	"github.com/creamcroissant/shopadmin/internal/bootstrap"
	"github.com/creamcroissant/shopadmin/internal/job"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin web UI and JSON API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	app, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	scheduler := job.NewScheduler(logger)
	if cfg.Probe.Enabled {
		probe, err := job.NewContentProbeJob(app.Health, app.Registry, logger)
		if err != nil {
			return err
		}
		// First result is logged before the listener opens.
		_ = scheduler.RunOnce(ctx, probe)
		if _, err := scheduler.Register(cfg.Probe.Spec, probe); err != nil {
			return err
		}
	}
	scheduler.Start()

	router := api.NewRouter(logger, app.Services(), cfg.Metrics, app.Registry)
	server := bootstrap.NewHTTPServer(cfg.HTTP, router)

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTP.Addr, "env", cfg.Log.Environment, "version", Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down http server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server exited cleanly")
	return nil
}
