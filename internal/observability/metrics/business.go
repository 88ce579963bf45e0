package metrics

import "time"

// UpdateAnnouncementsTotal updates the total count of announcements in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateAnnouncementsTotal(count int) {
	AnnouncementsTotal.Set(float64(count))
}

// UpdateCategoriesTotal updates the total count of categories in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateCategoriesTotal(count int) {
	CategoriesTotal.Set(float64(count))
}

// SetActiveConnections updates the WebSocket client gauge.
func SetActiveConnections(count int) {
	WSConnectionsActive.Set(float64(count))
}

// IncBroadcasts records one event broadcast to WebSocket clients.
func IncBroadcasts(event string) {
	WSBroadcastsTotal.WithLabelValues(event).Inc()
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_announcements", "insert_announcement").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
