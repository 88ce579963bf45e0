package announcement

import (
	"encoding/json"
	"errors"
	"net/http"

	"city-announcements/internal/handler/http/respond"
	annUC "city-announcements/internal/usecase/announcement"
)

type CreateHandler struct{ Svc *annUC.Service }

// ServeHTTP お知らせ作成
// @Summary      お知らせ作成
// @Description  新しいお知らせを作成し、作成されたレコードを返します
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        announcement body object true "お知らせ情報"
// @Success      201 {object} DTO "作成されたお知らせ"
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /announcements [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title           string  `json:"title"`
		Content         string  `json:"content"`
		PublicationDate string  `json:"publicationDate"`
		CategoryIDs     []int64 `json:"categoryIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.PublicationDate == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("publicationDate is required"))
		return
	}

	a, err := h.Svc.Create(r.Context(), annUC.CreateInput{
		Title:           req.Title,
		Content:         req.Content,
		PublicationDate: req.PublicationDate,
		CategoryIDs:     req.CategoryIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, NewDTO(a))
}
