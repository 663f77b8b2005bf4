package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/koebako/external/config"
	"github.com/foxseedlab/koebako/external/discord"
	metricsimpl "github.com/foxseedlab/koebako/external/metrics"
	notifierimpl "github.com/foxseedlab/koebako/external/notifier"
	repositoryimpl "github.com/foxseedlab/koebako/external/repository"
	"github.com/foxseedlab/koebako/internal/config"
	discordpkg "github.com/foxseedlab/koebako/internal/discord"
	"github.com/foxseedlab/koebako/internal/presence"
	"github.com/foxseedlab/koebako/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"
)

const (
	discordConnectTimeout = 20 * time.Second
	stateLoadTimeout      = 30 * time.Second
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "storage_backend", cfg.StorageBackend)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching discord bot")
	runBot(cfg, injector)
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
	repositoryimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	notifierimpl.RegisterDI(injector)
	metricsimpl.RegisterDI(injector)
	presence.RegisterDI(injector)

	return injector
}

func runBot(cfg *config.Config, injector do.Injector) {
	backend, err := do.Invoke[repository.Backend](injector)
	if err != nil {
		slog.Error("failed to open storage backend", "error", err, "storage_backend", cfg.StorageBackend)
		os.Exit(1)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("storage close failed", "error", err)
		}
	}()

	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		slog.Error("failed to resolve discord client", "error", err)
		os.Exit(1)
	}
	manager, err := do.Invoke[*presence.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve presence manager", "error", err)
		os.Exit(1)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), stateLoadTimeout)
	manager.LoadState(loadCtx)
	cancelLoad()

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		reg := do.MustInvoke[*prometheus.Registry](injector)
		go func() {
			if err := metricsimpl.Serve(runCtx, cfg.MetricsAddr, reg); err != nil {
				slog.Error("metrics server failed", "error", err, "addr", cfg.MetricsAddr)
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancel()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(ctx); err != nil {
		slog.Error("discord connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: discord connected")

	botUserID, err := dc.GetBotUserID()
	if err != nil {
		slog.Error("failed to resolve bot user id", "error", err)
		os.Exit(1)
	}
	manager.SetBotUserID(botUserID)

	if err := dc.UpsertGuildSlashCommands(cfg.DiscordGuildID, presence.SlashCommandDefinitions(cfg)); err != nil {
		slog.Error("failed to upsert slash commands", "error", err, "guild_id", cfg.DiscordGuildID)
		os.Exit(1)
	}

	dc.RegisterVoiceStateUpdateHandler(manager.HandleVoiceStateUpdate)
	dc.RegisterSlashCommandHandler(manager.HandleSlashCommand)
	slog.Info("discord handlers registered", "guild_id", cfg.DiscordGuildID, "commands", []string{"vchistory", "vcstats"})
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		close(done)
	}()

	select {
	case <-runCtx.Done():
		slog.Info("shutting down")
	case <-done:
	}
}
