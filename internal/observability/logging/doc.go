// Package logging configures the slog logger the announcements service
// runs with and ties log lines to request IDs.
//
// The server builds one JSON logger at startup (level from LOG_LEVEL)
// and handlers derive per-request loggers from it:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logger := logging.WithRequestID(r.Context(), h.Logger)
//	    logger.Info("Announcement list request")
//	}
package logging
