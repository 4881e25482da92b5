package config

import (
	"testing"
	"time"
)

func TestLoad_CustomEnvironment(t *testing.T) {
	// Set custom environment variables using t.Setenv (auto cleanup)
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "file:./prod.db")
	t.Setenv("HA_URL", "http://ha.example.com:8123")
	t.Setenv("HA_TOKEN", "secret-token")
	t.Setenv("HA_SENSOR", "sensor.signage")
	t.Setenv("HA_MEDIA_PREFIX", "signage")
	t.Setenv("PLAYLIST_POLL_INTERVAL", "30s")
	t.Setenv("CORS_ORIGIN", "http://example.com")
	t.Setenv("PUBLIC_DIR", "/srv/public")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Expected Env to be 'production', got '%s'", cfg.Env)
	}
	if cfg.DatabaseURL != "file:./prod.db" {
		t.Errorf("Expected DatabaseURL to be 'file:./prod.db', got '%s'", cfg.DatabaseURL)
	}
	if cfg.HAURL != "http://ha.example.com:8123" {
		t.Errorf("Expected HAURL to be 'http://ha.example.com:8123', got '%s'", cfg.HAURL)
	}
	if cfg.HAToken != "secret-token" {
		t.Errorf("Expected HAToken to be 'secret-token', got '%s'", cfg.HAToken)
	}
	if cfg.HASensor != "sensor.signage" {
		t.Errorf("Expected HASensor to be 'sensor.signage', got '%s'", cfg.HASensor)
	}
	if cfg.HAMediaPrefix != "signage" {
		t.Errorf("Expected HAMediaPrefix to be 'signage', got '%s'", cfg.HAMediaPrefix)
	}
	if cfg.PlaylistPollInterval != 30*time.Second {
		t.Errorf("Expected PlaylistPollInterval to be 30s, got %v", cfg.PlaylistPollInterval)
	}
	if cfg.CORSOrigin != "http://example.com" {
		t.Errorf("Expected CORSOrigin to be 'http://example.com', got '%s'", cfg.CORSOrigin)
	}
	if cfg.PublicDir != "/srv/public" {
		t.Errorf("Expected PublicDir to be '/srv/public', got '%s'", cfg.PublicDir)
	}
	if !cfg.IsProduction() {
		t.Error("Expected IsProduction() to be true")
	}
	if cfg.IsDevelopment() {
		t.Error("Expected IsDevelopment() to be false")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PLAYLIST_POLL_INTERVAL", "not-a-duration")
	t.Setenv("FADE_DURATION_MS", "not-a-number")
	t.Setenv("DISPLAY_MUTED", "not-a-bool")

	cfg := Load()
	if cfg.PlaylistPollInterval != 5*time.Minute {
		t.Errorf("Expected default poll interval 5m, got %v", cfg.PlaylistPollInterval)
	}

	dcfg := LoadDisplay()
	if dcfg.FadeDuration != 500*time.Millisecond {
		t.Errorf("Expected default fade duration 500ms, got %v", dcfg.FadeDuration)
	}
	if dcfg.StartMuted != true {
		t.Errorf("Expected StartMuted default true, got %v", dcfg.StartMuted)
	}
}

func TestLoadDisplay_CustomEnvironment(t *testing.T) {
	t.Setenv("SERVER_URL", "http://signage.local:3000")
	t.Setenv("MPV_PATH", "/usr/local/bin/mpv")
	t.Setenv("MPV_SOCKET_DIR", "/run/loopsign")
	t.Setenv("DISPLAY_MUTED", "false")
	t.Setenv("FADE_DURATION_MS", "750")

	cfg := LoadDisplay()

	if cfg.ServerURL != "http://signage.local:3000" {
		t.Errorf("Expected ServerURL to be 'http://signage.local:3000', got '%s'", cfg.ServerURL)
	}
	if cfg.MPVPath != "/usr/local/bin/mpv" {
		t.Errorf("Expected MPVPath to be '/usr/local/bin/mpv', got '%s'", cfg.MPVPath)
	}
	if cfg.MPVSocketDir != "/run/loopsign" {
		t.Errorf("Expected MPVSocketDir to be '/run/loopsign', got '%s'", cfg.MPVSocketDir)
	}
	if cfg.StartMuted {
		t.Error("Expected StartMuted to be false")
	}
	if cfg.FadeDuration != 750*time.Millisecond {
		t.Errorf("Expected FadeDuration to be 750ms, got %v", cfg.FadeDuration)
	}
}
