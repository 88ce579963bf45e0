// Package notifier provides outbound delivery of announcement events.
// Besides the in-process WebSocket hub, deployments can configure an HTTP
// webhook so external systems (mail gateways, chat bridges, sister sites)
// learn about new announcements without polling the API.
//
// Delivery is fire-and-forget from the caller's point of view: every
// implementation handles rate limiting, retries, and error logging
// internally and never blocks the publishing request.
package notifier

import (
	"context"

	"city-announcements/internal/domain/entity"
)

// Notifier receives announcement lifecycle events.
type Notifier interface {
	// AnnouncementCreated is called after a new announcement is persisted.
	// Implementations must return quickly; slow delivery work has to happen
	// on a separate goroutine.
	AnnouncementCreated(ctx context.Context, a *entity.Announcement)
}

// Multi fans an event out to several notifiers in order.
type Multi []Notifier

// AnnouncementCreated forwards the event to every wrapped notifier.
func (m Multi) AnnouncementCreated(ctx context.Context, a *entity.Announcement) {
	for _, n := range m {
		n.AnnouncementCreated(ctx, a)
	}
}
