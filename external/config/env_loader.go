package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/koebako/internal/config"
)

type envConfig struct {
	Env                 string `env:"ENV" envDefault:"production"`
	DiscordToken        string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID      string `env:"DISCORD_GUILD_ID,required"`
	DiscordLogChannelID string `env:"DISCORD_LOG_CHANNEL_ID"`
	StorageBackend      string `env:"STORAGE_BACKEND" envDefault:"file"`
	HistoryFile         string `env:"HISTORY_FILE" envDefault:"voice_history.json"`
	TotalsFile          string `env:"TOTALS_FILE" envDefault:"user_totals.json"`
	DatabaseURL         string `env:"DATABASE_URL"`
	SQLitePath          string `env:"SQLITE_PATH" envDefault:"koebako.db"`
	HistoryDefaultLimit int    `env:"HISTORY_DEFAULT_LIMIT" envDefault:"10"`
	HistoryMaxLimit     int    `env:"HISTORY_MAX_LIMIT" envDefault:"50"`
	LogTimezone         string `env:"LOG_TIMEZONE" envDefault:"UTC"`
	NotifyWebhookURL    string `env:"NOTIFY_WEBHOOK_URL"`
	MetricsAddr         string `env:"METRICS_ADDR"`
	FlushTimeoutSec     int    `env:"FLUSH_TIMEOUT_SEC" envDefault:"10"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                 raw.Env,
		DiscordToken:        raw.DiscordToken,
		DiscordGuildID:      raw.DiscordGuildID,
		DiscordLogChannelID: raw.DiscordLogChannelID,
		StorageBackend:      raw.StorageBackend,
		HistoryFile:         raw.HistoryFile,
		TotalsFile:          raw.TotalsFile,
		DatabaseURL:         raw.DatabaseURL,
		SQLitePath:          raw.SQLitePath,
		HistoryDefaultLimit: raw.HistoryDefaultLimit,
		HistoryMaxLimit:     raw.HistoryMaxLimit,
		LogTimezone:         raw.LogTimezone,
		NotifyWebhookURL:    raw.NotifyWebhookURL,
		MetricsAddr:         raw.MetricsAddr,
		FlushTimeoutSec:     raw.FlushTimeoutSec,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
