package announcement

import (
	"errors"
	"net/http"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/handler/http/pathutil"
	"city-announcements/internal/handler/http/respond"
	annUC "city-announcements/internal/usecase/announcement"
)

type GetHandler struct{ Svc *annUC.Service }

// ServeHTTP お知らせ詳細取得
// @Summary      お知らせ詳細取得
// @Description  指定されたIDのお知らせを取得します（カテゴリを含む）
// @Tags         announcements
// @Produce      json
// @Param        id path int true "お知らせID"
// @Success      200 {object} DTO "お知らせ詳細"
// @Failure      400 {string} string "Bad request - invalid announcement ID"
// @Failure      404 {string} string "Not found - announcement not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /announcements/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/announcements/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewDTO(a))
}

// writeError maps usecase errors onto HTTP status codes shared by all
// announcement handlers. Domain validation messages are returned verbatim,
// everything else goes through the sanitizing path.
func writeError(w http.ResponseWriter, err error) {
	var vErr *entity.ValidationError
	switch {
	case errors.Is(err, annUC.ErrInvalidAnnouncementID):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, annUC.ErrAnnouncementNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	case errors.As(err, &vErr):
		respond.Error(w, http.StatusBadRequest, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
