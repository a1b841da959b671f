package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Environment
	IsProd bool `yaml:"is_prod"`

	// Platform API (REST collaborator)
	API APIConfig `yaml:"api"`

	// Realtime push channel
	Channel ChannelConfig `yaml:"channel"`

	// Market data auto-refresh polling
	Refresh RefreshConfig `yaml:"refresh"`

	// Toast and highlight rendering
	Toasts ToastConfig `yaml:"toasts"`

	// Theme preference store
	Theme ThemeConfig `yaml:"theme"`

	// Discord notification forwarding
	Discord DiscordConfig `yaml:"discord"`

	// Stats/health server
	Stats StatsConfig `yaml:"stats"`
}

// APIConfig holds REST API configuration.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	// Outbound request rate, requests per second. Keeps a large poll
	// fan-out from hammering the backend. Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// ChannelConfig holds push channel configuration.
type ChannelConfig struct {
	WebsocketURL string `yaml:"websocket_url"`

	// ReconnectDelay is the fixed delay between reconnect attempts.
	// Compatibility-pinned at 5s: no growth, no retry cap.
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`

	MessageBufferSize int `yaml:"message_buffer_size"`
}

// RefreshConfig holds market data polling configuration.
type RefreshConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`

	// Per-request timeout within a poll cycle.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Securities registered as auto-refresh market slots at startup, the
	// daemon-side stand-in for the page's marker attributes.
	Securities []string `yaml:"securities"`
}

// StatsConfig holds the stats/health server configuration.
type StatsConfig struct {
	// Port for /health and /stats. Zero disables the server.
	Port int `yaml:"port"`
}

// ToastConfig holds toast rendering configuration.
type ToastConfig struct {
	// DismissDelay is the default auto-dismiss delay for non-pinned toasts.
	DismissDelay time.Duration `yaml:"dismiss_delay"`

	// HighlightWindow is how long a price flash highlight stays applied.
	HighlightWindow time.Duration `yaml:"highlight_window"`
}

// ThemeConfig holds theme preference store configuration.
type ThemeConfig struct {
	StorePath string `yaml:"store_path"`
	Default   string `yaml:"default"`
}

// DiscordConfig holds Discord forwarding configuration.
type DiscordConfig struct {
	BotToken  string `yaml:"-"` // Excluded - env var only
	ChannelID string `yaml:"channel_id"`
}

// Load builds a Config from environment variables, falling back to defaults.
func Load() *Config {
	return &Config{
		IsProd: envBool("STAGE", "PROD"),

		API: APIConfig{
			BaseURL:   envString("API_BASE_URL", "http://localhost:8080/api"),
			Timeout:   envDuration("API_TIMEOUT", 30*time.Second),
			RateLimit: envFloat("API_RATE_LIMIT", 20.0),
			RateBurst: envInt("API_RATE_BURST", 40),
		},

		Channel: ChannelConfig{
			WebsocketURL:      envString("CHANNEL_WS_URL", "ws://localhost:8080/ws"),
			ReconnectDelay:    envDuration("CHANNEL_RECONNECT_DELAY", 5*time.Second),
			MessageBufferSize: envInt("CHANNEL_MESSAGE_BUFFER", 1024),
		},

		Refresh: RefreshConfig{
			Enabled:        envBoolDefault("REFRESH_ENABLED", true),
			Interval:       envDuration("REFRESH_INTERVAL", 30*time.Second),
			RequestTimeout: envDuration("REFRESH_REQUEST_TIMEOUT", 10*time.Second),
			Securities:     envStringSlice("REFRESH_SECURITIES"),
		},

		Toasts: ToastConfig{
			DismissDelay:    envDuration("TOAST_DISMISS_DELAY", 5*time.Second),
			HighlightWindow: envDuration("HIGHLIGHT_WINDOW", 2*time.Second),
		},

		Theme: ThemeConfig{
			StorePath: envString("THEME_STORE_PATH", "bridge_prefs.db"),
			Default:   envString("THEME_DEFAULT", "light"),
		},

		Discord: DiscordConfig{
			BotToken:  envString("DISCORD_BOT_TOKEN", ""),
			ChannelID: envString("DISCORD_CHANNEL_ID", ""),
		},

		Stats: StatsConfig{
			Port: envInt("STATS_PORT", 8090),
		},
	}
}

// LoadWithFile loads env config and, when BRIDGE_CONFIG_FILE points at a YAML
// file, overlays values from it. Secrets stay env-only (yaml:"-" fields).
func LoadWithFile() (*Config, error) {
	cfg := Load()

	path := strings.TrimSpace(os.Getenv("BRIDGE_CONFIG_FILE"))
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func envBool(key, trueValue string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), trueValue)
}

func envStringSlice(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func envBoolDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "1") || strings.EqualFold(v, "yes")
}
