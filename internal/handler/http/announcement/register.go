package announcement

import (
	"log/slog"
	"net/http"

	annUC "city-announcements/internal/usecase/announcement"
)

// Register registers all announcement-related HTTP handlers with the given mux.
// It sets up routes for listing, fetching, creating, updating, and deleting
// announcements.
func Register(mux *http.ServeMux, svc *annUC.Service, logger *slog.Logger) {
	mux.Handle("GET    /announcements", ListHandler{Svc: svc, Logger: logger})
	mux.Handle("GET    /announcements/", GetHandler{svc})

	mux.Handle("POST   /announcements", CreateHandler{svc})
	mux.Handle("PATCH  /announcements/", UpdateHandler{svc})
	mux.Handle("DELETE /announcements/", DeleteHandler{svc})
}
