package category

import (
	"net/http"

	catUC "city-announcements/internal/usecase/category"
)

// Register registers category-related HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc *catUC.Service) {
	mux.Handle("GET /categories", ListHandler{svc})
}
