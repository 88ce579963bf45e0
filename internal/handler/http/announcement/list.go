package announcement

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"city-announcements/internal/handler/http/requestid"
	"city-announcements/internal/handler/http/respond"
	"city-announcements/internal/observability/logging"
	annUC "city-announcements/internal/usecase/announcement"
)

type ListHandler struct {
	Svc    *annUC.Service
	Logger *slog.Logger
}

// ServeHTTP お知らせ一覧取得
// @Summary      お知らせ一覧取得
// @Description  登録されているお知らせを更新日時の降順で取得します。search と category で絞り込みできます。
// @Tags         announcements
// @Produce      json
// @Param        search    query    string  false  "タイトル・本文の部分一致（大文字小文字を区別しない）"
// @Param        category  query    int     false  "カテゴリIDで絞り込み"
// @Success      200 {array} DTO "お知らせ一覧"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /announcements [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	search := r.URL.Query().Get("search")

	var categoryID *int64
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			logger.Warn("Invalid category filter",
				"category", raw,
				"request_id", reqID)
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("category must be a positive integer"))
			return
		}
		categoryID = &id
	}

	anns, err := h.Svc.List(ctx, search, categoryID)
	if err != nil {
		logger.Error("Failed to list announcements",
			"error", err.Error(),
			"request_id", reqID)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	// 0件でも null ではなく [] を返す
	dtos := make([]DTO, 0, len(anns))
	for _, a := range anns {
		dtos = append(dtos, NewDTO(a))
	}

	logger.Info("Announcement list request",
		"search", search,
		"returned_count", len(dtos),
		"duration_ms", time.Since(startTime).Milliseconds(),
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, dtos)
}
