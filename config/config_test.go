package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func clearBridgeEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"STAGE", "API_BASE_URL", "API_TIMEOUT", "API_RATE_LIMIT", "API_RATE_BURST",
		"CHANNEL_WS_URL", "CHANNEL_RECONNECT_DELAY", "CHANNEL_MESSAGE_BUFFER",
		"REFRESH_ENABLED", "REFRESH_INTERVAL", "REFRESH_REQUEST_TIMEOUT", "REFRESH_SECURITIES",
		"TOAST_DISMISS_DELAY", "HIGHLIGHT_WINDOW",
		"THEME_STORE_PATH", "THEME_DEFAULT",
		"DISCORD_BOT_TOKEN", "DISCORD_CHANNEL_ID",
		"STATS_PORT", "BRIDGE_CONFIG_FILE",
	} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearBridgeEnv(t)

	cfg := Load()

	if cfg.IsProd {
		t.Error("expected IsProd to be false by default")
	}
	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Errorf("API base URL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Channel.WebsocketURL != "ws://localhost:8080/ws" {
		t.Errorf("websocket URL = %q", cfg.Channel.WebsocketURL)
	}
	if cfg.Channel.ReconnectDelay != 5*time.Second {
		t.Errorf("reconnect delay = %v, want 5s", cfg.Channel.ReconnectDelay)
	}
	if cfg.Channel.MessageBufferSize != 1024 {
		t.Errorf("message buffer = %d, want 1024", cfg.Channel.MessageBufferSize)
	}
	if !cfg.Refresh.Enabled {
		t.Error("refresh should be enabled by default")
	}
	if cfg.Refresh.Interval != 30*time.Second {
		t.Errorf("refresh interval = %v, want 30s", cfg.Refresh.Interval)
	}
	if cfg.Refresh.Securities != nil {
		t.Errorf("securities = %v, want none", cfg.Refresh.Securities)
	}
	if cfg.Toasts.DismissDelay != 5*time.Second {
		t.Errorf("dismiss delay = %v, want 5s", cfg.Toasts.DismissDelay)
	}
	if cfg.Toasts.HighlightWindow != 2*time.Second {
		t.Errorf("highlight window = %v, want 2s", cfg.Toasts.HighlightWindow)
	}
	if cfg.Theme.Default != "light" {
		t.Errorf("theme default = %q, want light", cfg.Theme.Default)
	}
	if cfg.Stats.Port != 8090 {
		t.Errorf("stats port = %d, want 8090", cfg.Stats.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearBridgeEnv(t)
	t.Setenv("STAGE", "PROD")
	t.Setenv("API_BASE_URL", "https://platform.example.com/api")
	t.Setenv("CHANNEL_RECONNECT_DELAY", "7s")
	t.Setenv("REFRESH_ENABLED", "false")
	t.Setenv("REFRESH_SECURITIES", "SEC-1, SEC-2 ,,SEC-3")
	t.Setenv("STATS_PORT", "0")

	cfg := Load()

	if !cfg.IsProd {
		t.Error("STAGE=PROD should set IsProd")
	}
	if cfg.API.BaseURL != "https://platform.example.com/api" {
		t.Errorf("API base URL = %q", cfg.API.BaseURL)
	}
	if cfg.Channel.ReconnectDelay != 7*time.Second {
		t.Errorf("reconnect delay = %v, want 7s", cfg.Channel.ReconnectDelay)
	}
	if cfg.Refresh.Enabled {
		t.Error("REFRESH_ENABLED=false should disable polling")
	}
	want := []string{"SEC-1", "SEC-2", "SEC-3"}
	if !reflect.DeepEqual(cfg.Refresh.Securities, want) {
		t.Errorf("securities = %v, want %v", cfg.Refresh.Securities, want)
	}
	if cfg.Stats.Port != 0 {
		t.Errorf("stats port = %d, want 0", cfg.Stats.Port)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearBridgeEnv(t)
	t.Setenv("API_TIMEOUT", "not-a-duration")
	t.Setenv("CHANNEL_MESSAGE_BUFFER", "lots")
	t.Setenv("API_RATE_LIMIT", "fast")

	cfg := Load()

	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want default on bad value", cfg.API.Timeout)
	}
	if cfg.Channel.MessageBufferSize != 1024 {
		t.Errorf("buffer = %d, want default on bad value", cfg.Channel.MessageBufferSize)
	}
	if cfg.API.RateLimit != 20.0 {
		t.Errorf("rate limit = %v, want default on bad value", cfg.API.RateLimit)
	}
}

func TestLoadWithFile_Overlay(t *testing.T) {
	clearBridgeEnv(t)

	path := filepath.Join(t.TempDir(), "bridge.yaml")
	body := `
channel:
  websocket_url: wss://platform.example.com/ws
refresh:
  securities: [SEC-9]
theme:
  default: dark
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("BRIDGE_CONFIG_FILE", path)
	t.Setenv("DISCORD_BOT_TOKEN", "env-secret")

	cfg, err := LoadWithFile()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Channel.WebsocketURL != "wss://platform.example.com/ws" {
		t.Errorf("websocket URL = %q", cfg.Channel.WebsocketURL)
	}
	if !reflect.DeepEqual(cfg.Refresh.Securities, []string{"SEC-9"}) {
		t.Errorf("securities = %v", cfg.Refresh.Securities)
	}
	if cfg.Theme.Default != "dark" {
		t.Errorf("theme default = %q, want dark", cfg.Theme.Default)
	}
	// Untouched values keep their env/defaults, and secrets never come
	// from the file.
	if cfg.Channel.ReconnectDelay != 5*time.Second {
		t.Errorf("reconnect delay = %v, want 5s", cfg.Channel.ReconnectDelay)
	}
	if cfg.Discord.BotToken != "env-secret" {
		t.Errorf("bot token = %q, want env value", cfg.Discord.BotToken)
	}
}

func TestLoadWithFile_MissingFile(t *testing.T) {
	clearBridgeEnv(t)
	t.Setenv("BRIDGE_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := LoadWithFile(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	clearBridgeEnv(t)
	cfg := Load()

	result := cfg.Validate()
	if !result.Valid {
		t.Errorf("default config should validate, got: %v", result.Errors)
	}

	cfg.Channel.ReconnectDelay = 0
	cfg.Refresh.Interval = -time.Second
	cfg.Theme.Default = "sepia"

	result = cfg.Validate()
	if result.Valid {
		t.Error("expected validation failures")
	}
	if len(result.Errors) != 3 {
		t.Errorf("error count = %d, want 3: %v", len(result.Errors), result.Errors)
	}
}
