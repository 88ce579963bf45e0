// Package category provides HTTP handlers for category-related endpoints.
package category

import (
	"net/http"

	"city-announcements/internal/handler/http/respond"
	catUC "city-announcements/internal/usecase/category"
)

// DTO represents the JSON structure for category data transfer.
type DTO struct {
	ID   int64  `json:"id" example:"1"`
	Name string `json:"name" example:"Community events"`
}

type ListHandler struct{ Svc *catUC.Service }

// ServeHTTP カテゴリ一覧取得
// @Summary      カテゴリ一覧取得
// @Description  登録されているカテゴリを名前順で取得します
// @Tags         categories
// @Produce      json
// @Success      200 {array} DTO "カテゴリ一覧"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /categories [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(cats))
	for _, c := range cats {
		dtos = append(dtos, DTO{ID: c.ID, Name: c.Name})
	}

	respond.JSON(w, http.StatusOK, dtos)
}
