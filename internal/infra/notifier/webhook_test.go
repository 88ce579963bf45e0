package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"city-announcements/internal/domain/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sampleAnnouncement() *entity.Announcement {
	return &entity.Announcement{
		ID:              42,
		Title:           "Water main maintenance",
		Content:         "Expect low pressure on Elm street.",
		PublicationDate: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Categories: []entity.Category{
			{ID: 1, Name: "City"},
			{ID: 8, Name: "Emergencies"},
		},
	}
}

func testConfig(url string) WebhookConfig {
	return WebhookConfig{
		URL:           url,
		Timeout:       2 * time.Second,
		RatePerSecond: 50,
		Burst:         50,
	}
}

/* ───────────────────────── delivery ───────────────────────── */

func TestWebhook_DeliversCreatedEvent(t *testing.T) {
	received := make(chan webhookEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var ev webhookEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			t.Errorf("decode body: %v", err)
		}
		received <- ev
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewWebhook(testConfig(srv.URL), testLogger())
	w.AnnouncementCreated(context.Background(), sampleAnnouncement())

	select {
	case ev := <-received:
		if ev.Event != "announcement:created" {
			t.Errorf("event = %q, want announcement:created", ev.Event)
		}
		if ev.Data.ID != 42 {
			t.Errorf("data.id = %d, want 42", ev.Data.ID)
		}
		if len(ev.Data.Categories) != 2 || ev.Data.Categories[1] != "Emergencies" {
			t.Errorf("categories = %v, want [City Emergencies]", ev.Data.Categories)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for webhook delivery")
	}
}

func TestWebhook_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		close(done)
	}))
	defer srv.Close()

	w := NewWebhook(testConfig(srv.URL), testLogger())
	w.AnnouncementCreated(context.Background(), sampleAnnouncement())

	select {
	case <-done:
		if got := calls.Load(); got != 3 {
			t.Errorf("calls = %d, want 3", got)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("delivery never succeeded, calls = %d", calls.Load())
	}
}

func TestWebhook_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	w := NewWebhook(testConfig(srv.URL), testLogger())
	w.AnnouncementCreated(context.Background(), sampleAnnouncement())

	// リトライしないことを確認するため少し待つ
	time.Sleep(500 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (4xx must not be retried)", got)
	}
}

/* ───────────────────────── fan-out ───────────────────────── */

type countingNotifier struct {
	calls atomic.Int64
}

func (c *countingNotifier) AnnouncementCreated(_ context.Context, _ *entity.Announcement) {
	c.calls.Add(1)
}

func TestMulti_FansOutInOrder(t *testing.T) {
	first := &countingNotifier{}
	second := &countingNotifier{}

	m := Multi{first, second}
	m.AnnouncementCreated(context.Background(), sampleAnnouncement())
	m.AnnouncementCreated(context.Background(), sampleAnnouncement())

	if first.calls.Load() != 2 || second.calls.Load() != 2 {
		t.Errorf("calls = (%d, %d), want (2, 2)", first.calls.Load(), second.calls.Load())
	}
}
