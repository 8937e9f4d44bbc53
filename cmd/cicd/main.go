package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SCE-Development/sce-cicd/internal/config"
	"github.com/SCE-Development/sce-cicd/internal/docker"
	"github.com/SCE-Development/sce-cicd/internal/guard"
	httpx "github.com/SCE-Development/sce-cicd/internal/http"
	"github.com/SCE-Development/sce-cicd/internal/metrics"
	"github.com/SCE-Development/sce-cicd/internal/notify"
	"github.com/SCE-Development/sce-cicd/internal/registry"
	"github.com/SCE-Development/sce-cicd/internal/runner"
	"github.com/SCE-Development/sce-cicd/internal/service/dispatch"
	"github.com/SCE-Development/sce-cicd/internal/service/pipeline"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger("cicd", slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var entries []config.RepoEntry
	list, err := config.LoadWatchList(cfg.WatchListPath)
	if err != nil {
		// A broken watch list should not take the server down; it keeps
		// serving health and metrics with an empty registry.
		log.Error("failed to load watch list", "path", cfg.WatchListPath, "error", err)
	} else {
		entries = list.Repos
	}
	reg := registry.Load(entries, log)
	log.Info("watch list loaded", "path", cfg.WatchListPath, "targets", reg.Len())

	sink := metrics.NewPromSink()

	if dockerClient, err := docker.New(cfg.DockerHost); err != nil {
		log.Warn("docker unavailable, disk usage gauge disabled", "error", err)
	} else {
		defer dockerClient.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := dockerClient.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("docker daemon unreachable, disk usage gauge disabled", "error", err)
		} else {
			poller := docker.NewPoller(dockerClient, sink, log, cfg.DiskUsagePollEvery)
			go poller.Run(ctx)
		}
	}

	notifier := notify.NewDiscordNotifier(cfg.DiscordWebhookURL, log)
	pipe := pipeline.New(runner.New(log), notify.NewFormatter(), notifier, sink, log, cfg.CommandTimeout)
	dispatchSvc := dispatch.New(reg, guard.New(log), pipe, log, cfg.DevMode)

	router := httpx.New(log, dispatchSvc, sink, cfg.DevMode)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("cicd server starting", "addr", cfg.Addr, "dev_mode", cfg.DevMode)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		// Let in-flight deployments finish; a killed git pull leaves a
		// working tree in a worse state than a late exit.
		dispatchSvc.Wait()
		log.Info("cicd server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
