package announcement

import (
	"net/http"

	"city-announcements/internal/handler/http/pathutil"
	"city-announcements/internal/handler/http/respond"
	annUC "city-announcements/internal/usecase/announcement"
)

type DeleteHandler struct{ Svc *annUC.Service }

// ServeHTTP お知らせ削除
// @Summary      お知らせ削除
// @Description  お知らせを削除し、削除されたレコードを返します。カテゴリの紐付けも同時に削除されます。
// @Tags         announcements
// @Produce      json
// @Param        id path int true "お知らせID"
// @Success      200 {object} DTO "削除されたお知らせ"
// @Failure      400 {string} string "Bad request - invalid ID"
// @Failure      404 {string} string "Not found - announcement not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /announcements/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/announcements/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewDTO(a))
}
