package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/observability/tracing"
	"city-announcements/internal/resilience/circuitbreaker"
	"city-announcements/internal/resilience/retry"
)

// ClientError represents a 4xx response from the webhook receiver.
// Client errors are configuration problems and are never retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// webhookEvent is the JSON body posted to the configured endpoint.
// The shape matches the WebSocket push envelope so receivers can share
// parsing code with browser clients.
type webhookEvent struct {
	Event string         `json:"event"`
	Data  webhookPayload `json:"data"`
}

type webhookPayload struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	PublicationDate time.Time `json:"publicationDate"`
	Categories      []string  `json:"categories"`
}

// Webhook delivers announcement events to an HTTP endpoint.
// Delivery happens on a background goroutine with rate limiting, bounded
// retries, and a circuit breaker around the receiving endpoint.
type Webhook struct {
	url     string
	client  *http.Client
	limiter *RateLimiter
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewWebhook creates a webhook notifier from the given configuration.
func NewWebhook(cfg WebhookConfig, logger *slog.Logger) *Webhook {
	return &Webhook{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: NewRateLimiter(float64(cfg.RatePerSecond), cfg.Burst),
		breaker: circuitbreaker.New(circuitbreaker.WebhookConfig()),
		logger:  logger,
	}
}

// AnnouncementCreated schedules delivery of the created event. The request
// context is detached so delivery survives the originating HTTP request.
func (w *Webhook) AnnouncementCreated(ctx context.Context, a *entity.Announcement) {
	go w.deliver(context.WithoutCancel(ctx), a)
}

func (w *Webhook) deliver(ctx context.Context, a *entity.Announcement) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, "webhook.deliver")
	defer span.End()
	span.SetAttributes(attribute.Int64("announcement.id", a.ID))

	categories := make([]string, 0, len(a.Categories))
	for _, c := range a.Categories {
		categories = append(categories, c.Name)
	}
	body, err := json.Marshal(webhookEvent{
		Event: "announcement:created",
		Data: webhookPayload{
			ID:              a.ID,
			Title:           a.Title,
			Content:         a.Content,
			PublicationDate: a.PublicationDate,
			Categories:      categories,
		},
	})
	if err != nil {
		w.logger.Error("failed to marshal webhook event",
			slog.Int64("announcement_id", a.ID), slog.Any("error", err))
		return
	}

	if err := w.limiter.Allow(ctx); err != nil {
		w.logger.Warn("webhook rate limit wait aborted",
			slog.Int64("announcement_id", a.ID), slog.Any("error", err))
		return
	}

	err = retry.WithBackoff(ctx, retry.WebhookConfig(), func() error {
		_, execErr := w.breaker.Execute(func() (interface{}, error) {
			return nil, w.post(ctx, body)
		})
		return execErr
	})
	if err != nil {
		w.logger.Error("webhook delivery failed",
			slog.Int64("announcement_id", a.ID),
			slog.String("url", w.url),
			slog.Any("error", err))
		return
	}

	w.logger.Info("webhook delivered",
		slog.Int64("announcement_id", a.ID),
		slog.String("event", "announcement:created"))
}

// post sends one delivery attempt. 5xx and 429 responses come back as
// retry.HTTPError so the backoff loop retries them; other 4xx responses
// come back as ClientError and abort immediately.
func (w *Webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	// 接続再利用のためボディは読み捨てる
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return &retry.HTTPError{StatusCode: resp.StatusCode, Message: "webhook receiver error"}
	default:
		return &ClientError{StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("webhook rejected with status %d", resp.StatusCode)}
	}
}
