package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/playperu/monopoly/internal/monopoly"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.StoreBackend != "sqlite" || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TicketTTL != time.Minute || cfg.WSAuthTimeout != 10*time.Second {
		t.Errorf("ttl = %s, auth timeout = %s", cfg.TicketTTL, cfg.WSAuthTimeout)
	}
	if got, want := cfg.Game.Settings(), monopoly.DefaultSettings(); got != want {
		t.Errorf("game settings = %+v, want %+v", got, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GAME_MAX_PLAYERS", "3")
	t.Setenv("GAME_START_DELAY", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreBackend != "redis" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Game.MaxPlayers != 3 || cfg.Game.StartDelay != 250*time.Millisecond {
		t.Errorf("game = %+v", cfg.Game)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing jwt key": {},
		"unknown backend": {"JWT_KEY": "k", "STORE_BACKEND": "mongo"},
		"max below min":   {"JWT_KEY": "k", "GAME_MIN_PLAYERS": "3", "GAME_MAX_PLAYERS": "2"},
		"bad duration":    {"JWT_KEY": "k", "TICKET_TTL": "soon"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_KEY", "")
			for k, v := range vars {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
