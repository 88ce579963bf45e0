package respond

import (
	"regexp"
)

var (
	// データベースパスワードパターン（DSN内）
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)

	// 生の接続文字列パラメータ（password=xxx 形式）
	dbPasswordParamPattern = regexp.MustCompile(`password=\S+`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	// DBパスワードのマスク
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = dbPasswordParamPattern.ReplaceAllString(msg, "password=****")

	return msg
}
