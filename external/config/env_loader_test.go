package config

import "testing"

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "guild")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageBackend != "file" || cfg.HistoryFile != "voice_history.json" || cfg.TotalsFile != "user_totals.json" {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.HistoryDefaultLimit != 10 || cfg.LogTimezone != "UTC" || cfg.Env != "production" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DISCORD_GUILD_ID", "guild")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DISCORD_TOKEN")
	}
}

func TestLoad_RejectsInvalidBackend(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "guild")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres without DATABASE_URL")
	}
}
