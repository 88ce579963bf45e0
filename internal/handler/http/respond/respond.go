// Package respond writes JSON responses for the announcements API.
// Error helpers decide whether an error message is safe to show to
// clients; storage and other internal failures are replaced with a
// generic message and logged instead.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"city-announcements/internal/domain/entity"
)

// JSON writes v as a JSON body with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// ヘッダー送信済みなのでログに残すだけ
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes the error message as {"error": ...} without any
// safety filtering. Use only for messages constructed in handlers.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// SafeError writes an error response, hiding messages that might leak
// internals. Validation and not-found errors from the domain layer are
// returned verbatim; anything else becomes "internal server error"
// with the original logged.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	// 500系は常に内部エラー扱い
	if code < 500 && isSafe(err) {
		JSON(w, code, map[string]string{"error": err.Error()})
		return
	}

	// 接続文字列などの機密をマスクしてからログへ
	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.Any("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

// isSafe reports whether err carries a message written for clients.
// Domain error types are trusted directly; plain errors are matched
// against the phrasing the handlers and validators use.
func isSafe(err error) bool {
	var ve *entity.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrInvalidInput) {
		return true
	}

	// お知らせ系ハンドラ・バリデータが使う言い回し
	phrases := []string{
		"required",
		"invalid",
		"not found",
		"must be",
		"must not exceed",
		"do not exist",
		"cannot be",
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
