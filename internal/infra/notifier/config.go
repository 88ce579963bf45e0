package notifier

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"city-announcements/internal/pkg/config"
)

// WebhookConfig holds the configuration for the webhook notifier.
// An empty URL disables webhook delivery entirely.
type WebhookConfig struct {
	// URL is the endpoint that receives announcement events.
	URL string

	// Timeout bounds a single delivery attempt.
	Timeout time.Duration

	// RatePerSecond is the sustained delivery rate.
	RatePerSecond int

	// Burst is the token bucket burst capacity.
	Burst int
}

// DefaultWebhookConfig returns the defaults used when no environment
// overrides are present.
func DefaultWebhookConfig() WebhookConfig {
	return WebhookConfig{
		URL:           "",
		Timeout:       10 * time.Second,
		RatePerSecond: 2,
		Burst:         5,
	}
}

// Enabled reports whether webhook delivery is configured.
func (c WebhookConfig) Enabled() bool {
	return c.URL != ""
}

// LoadWebhookConfigFromEnv loads the webhook configuration from environment
// variables. Invalid values fall back to defaults with a warning; a malformed
// URL disables delivery rather than failing startup.
func LoadWebhookConfigFromEnv(logger *slog.Logger) WebhookConfig {
	def := DefaultWebhookConfig()
	cfg := def

	// URLが壊れている場合は配信無効（デフォルトの ""）に落とす
	urlRes := config.LoadEnvWithFallback("WEBHOOK_URL", "", validateWebhookURL)
	logWarnings(logger, urlRes.Warnings)
	cfg.URL = urlRes.Value.(string)

	timeoutRes := config.LoadEnvDuration("WEBHOOK_TIMEOUT", def.Timeout, config.ValidatePositiveDuration)
	logWarnings(logger, timeoutRes.Warnings)
	cfg.Timeout = timeoutRes.Value.(time.Duration)

	rateRes := config.LoadEnvInt("WEBHOOK_RATE_PER_SECOND", def.RatePerSecond, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	logWarnings(logger, rateRes.Warnings)
	cfg.RatePerSecond = rateRes.Value.(int)

	burstRes := config.LoadEnvInt("WEBHOOK_BURST", def.Burst, func(v int) error {
		return config.ValidateIntRange(v, 1, 100)
	})
	logWarnings(logger, burstRes.Warnings)
	cfg.Burst = burstRes.Value.(int)

	return cfg
}

func validateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("not an absolute URL")
	}
	return nil
}

func logWarnings(logger *slog.Logger, warnings []string) {
	for _, w := range warnings {
		logger.Warn("webhook configuration fallback", slog.String("detail", w))
	}
}
