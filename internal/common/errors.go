// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Remote service errors.
	ErrCatalogUnavailable = errors.New("type catalog unavailable")
	ErrScoreRequestFailed = errors.New("score request failed")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrServiceUnhealthy   = errors.New("service unhealthy")
	ErrRequestInFlight    = errors.New("a score request is already in flight")
	ErrStaleResponse      = errors.New("response superseded by a newer request")
	ErrInvalidSelection   = errors.New("invalid selection")

	// Configuration errors.
	ErrConfigurationMissing = errors.New("service base URL is not configured")
	ErrInvalidConfig        = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Diagnose converts an error from a user action into the inline message the
// presentation layer shows. Unknown errors fall back to their own text.
func Diagnose(err error) string {
	if err == nil {
		return ""
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	var detailed interface{ UserDetail() string }
	if errors.As(err, &detailed) {
		if d := detailed.UserDetail(); d != "" {
			return "診断に失敗しました: " + d
		}
	}

	switch {
	case errors.Is(err, ErrConfigurationMissing):
		return "API URLが設定されていません。`lovetype endpoint set <url>` で設定してください。"
	case errors.Is(err, ErrCatalogUnavailable):
		return "タイプ一覧の取得に失敗しました。APIのURLとサーバーの稼働を確認してください。"
	case errors.Is(err, ErrScoreRequestFailed):
		return "診断に失敗しました。サーバーのログを確認してください。"
	case errors.Is(err, ErrUnknownCategory):
		return "選択されたタイプは一覧にありません。"
	case errors.Is(err, ErrInvalidSelection):
		return "ふたりのタイプを選んでください。"
	case errors.Is(err, ErrRequestInFlight):
		return "診断中です。しばらくお待ちください。"
	case errors.Is(err, ErrNotFound):
		return "診断結果がありません。タイプを選び直してください。"
	}
	return err.Error()
}
