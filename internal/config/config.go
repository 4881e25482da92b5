// Package config provides configuration management for the LoopSign server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Home Assistant media source
	HAURL         string
	HAToken       string
	HASensor      string // Entity whose attributes carry the file list
	HAMediaPrefix string // Path prefix stripped from file_list entries

	// Playlist polling
	PlaylistPollInterval time.Duration

	// CORS configuration
	CORSOrigin string

	// Static assets for the browser player
	PublicDir string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "file:./loopsign.db"),

		// Home Assistant
		HAURL:         getEnv("HA_URL", "http://homeassistant.local:8123"),
		HAToken:       getEnv("HA_TOKEN", ""),
		HASensor:      getEnv("HA_SENSOR", "sensor.rtfm"),
		HAMediaPrefix: getEnv("HA_MEDIA_PREFIX", "rtfm"),

		// Playlist polling
		PlaylistPollInterval: getEnvDuration("PLAYLIST_POLL_INTERVAL", 5*time.Minute),

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		// Static assets
		PublicDir: getEnv("PUBLIC_DIR", "./public"),
	}
}

// DisplayConfig holds configuration for the display client binary.
type DisplayConfig struct {
	ServerURL    string // Base URL of the control server
	MPVPath      string // Path to the mpv binary
	MPVSocketDir string // Directory for the mpv IPC sockets
	StartMuted   bool
	FadeDuration time.Duration
}

// LoadDisplay loads display client configuration from environment variables.
func LoadDisplay() *DisplayConfig {
	return &DisplayConfig{
		ServerURL:    getEnv("SERVER_URL", "http://localhost:3000"),
		MPVPath:      getEnv("MPV_PATH", "mpv"),
		MPVSocketDir: getEnv("MPV_SOCKET_DIR", os.TempDir()),
		StartMuted:   getEnvBool("DISPLAY_MUTED", true),
		FadeDuration: time.Duration(getEnvInt("FADE_DURATION_MS", 500)) * time.Millisecond,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration returns the duration value of an environment variable or a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
