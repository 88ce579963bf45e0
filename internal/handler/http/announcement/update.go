package announcement

import (
	"encoding/json"
	"net/http"

	"city-announcements/internal/handler/http/pathutil"
	"city-announcements/internal/handler/http/respond"
	annUC "city-announcements/internal/usecase/announcement"
)

type UpdateHandler struct{ Svc *annUC.Service }

// ServeHTTP お知らせ更新
// @Summary      お知らせ更新
// @Description  既存のお知らせを部分更新し、更新後のレコードを返します。categoryIds を指定すると紐付けを全置換します。
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        id path int true "お知らせID"
// @Param        announcement body object true "更新するお知らせ情報"
// @Success      200 {object} DTO "更新後のお知らせ"
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      404 {string} string "Not found - announcement not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /announcements/{id} [patch]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/announcements/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Title           *string `json:"title"`
		Content         *string `json:"content"`
		PublicationDate *string `json:"publicationDate"`
		CategoryIDs     []int64 `json:"categoryIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := h.Svc.Update(r.Context(), annUC.UpdateInput{
		ID:              id,
		Title:           req.Title,
		Content:         req.Content,
		PublicationDate: req.PublicationDate,
		CategoryIDs:     req.CategoryIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewDTO(a))
}
