// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Business metrics (announcements, categories, broadcasts)
//   - WebSocket connection metrics
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "city-announcements/internal/observability/metrics"
//
//	func refreshCounts(ctx context.Context) {
//	    n, err := repo.Count(ctx)
//	    if err == nil {
//	        metrics.UpdateAnnouncementsTotal(int(n))
//	    }
//	}
package metrics
