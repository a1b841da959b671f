package config

import (
	"strings"
	"time"
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of config validation.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validate checks the config for invalid values.
func (c *Config) Validate() ValidationResult {
	var errors []ValidationError

	errors = append(errors, validateAPI(&c.API)...)
	errors = append(errors, validateChannel(&c.Channel)...)
	errors = append(errors, validateRefresh(&c.Refresh)...)
	errors = append(errors, validateToasts(&c.Toasts)...)
	errors = append(errors, validateTheme(&c.Theme)...)
	errors = append(errors, validateStats(&c.Stats)...)

	return ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func validateAPI(a *APIConfig) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(a.BaseURL) == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Message: "must not be empty",
		})
	}

	if a.Timeout < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "api.timeout",
			Message: "must be at least 1 second",
		})
	}

	if a.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "api.rate_limit",
			Message: "must be non-negative",
		})
	}

	if a.RateLimit > 0 && a.RateBurst < 1 {
		errors = append(errors, ValidationError{
			Field:   "api.rate_burst",
			Message: "must be at least 1 when rate limiting is enabled",
		})
	}

	return errors
}

func validateChannel(ch *ChannelConfig) []ValidationError {
	var errors []ValidationError

	// An empty websocket URL is allowed: the bridge reports the channel
	// unavailable and the page keeps working without realtime updates.

	if ch.ReconnectDelay < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "channel.reconnect_delay",
			Message: "must be at least 1 second",
		})
	}

	if ch.MessageBufferSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "channel.message_buffer_size",
			Message: "must be at least 1",
		})
	}

	return errors
}

func validateRefresh(r *RefreshConfig) []ValidationError {
	var errors []ValidationError

	if r.Enabled && r.Interval < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "refresh.interval",
			Message: "must be at least 1 second",
		})
	}

	if r.Enabled && r.RequestTimeout < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "refresh.request_timeout",
			Message: "must be at least 1 second",
		})
	}

	return errors
}

func validateToasts(t *ToastConfig) []ValidationError {
	var errors []ValidationError

	if t.DismissDelay < 100*time.Millisecond {
		errors = append(errors, ValidationError{
			Field:   "toasts.dismiss_delay",
			Message: "must be at least 100ms",
		})
	}

	if t.HighlightWindow < 100*time.Millisecond {
		errors = append(errors, ValidationError{
			Field:   "toasts.highlight_window",
			Message: "must be at least 100ms",
		})
	}

	return errors
}

func validateTheme(t *ThemeConfig) []ValidationError {
	var errors []ValidationError

	if t.Default != "light" && t.Default != "dark" {
		errors = append(errors, ValidationError{
			Field:   "theme.default",
			Message: "must be light or dark",
		})
	}

	return errors
}

func validateStats(s *StatsConfig) []ValidationError {
	var errors []ValidationError

	if s.Port < 0 || s.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "stats.port",
			Message: "must be a valid port or 0 to disable",
		})
	}

	return errors
}
