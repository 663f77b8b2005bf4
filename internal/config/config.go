package config

import (
	"fmt"
	"time"
)

const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
	StorageBackendSQLite   = "sqlite"
)

type Config struct {
	Env                 string
	DiscordToken        string
	DiscordGuildID      string
	DiscordLogChannelID string
	StorageBackend      string
	HistoryFile         string
	TotalsFile          string
	DatabaseURL         string
	SQLitePath          string
	HistoryDefaultLimit int
	HistoryMaxLimit     int
	LogTimezone         string
	NotifyWebhookURL    string
	MetricsAddr         string
	FlushTimeoutSec     int
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if c.HistoryDefaultLimit <= 0 {
		return fmt.Errorf("HISTORY_DEFAULT_LIMIT must be positive, got %d", c.HistoryDefaultLimit)
	}
	if c.HistoryMaxLimit < c.HistoryDefaultLimit {
		return fmt.Errorf("HISTORY_MAX_LIMIT must be at least HISTORY_DEFAULT_LIMIT (%d), got %d", c.HistoryDefaultLimit, c.HistoryMaxLimit)
	}
	if c.FlushTimeoutSec <= 0 {
		return fmt.Errorf("FLUSH_TIMEOUT_SEC must be positive, got %d", c.FlushTimeoutSec)
	}
	if _, err := time.LoadLocation(c.LogTimezone); err != nil {
		return fmt.Errorf("LOG_TIMEZONE is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.StorageBackend {
	case StorageBackendFile:
		if c.HistoryFile == "" || c.TotalsFile == "" {
			return fmt.Errorf("HISTORY_FILE and TOTALS_FILE are required when STORAGE_BACKEND=file")
		}
	case StorageBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case StorageBackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of file, postgres, sqlite, got %q", c.StorageBackend)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_GUILD_ID", value: c.DiscordGuildID},
		{name: "LOG_TIMEZONE", value: c.LogTimezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.LogTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) FlushTimeout() time.Duration {
	return time.Duration(c.FlushTimeoutSec) * time.Second
}
