// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"sort"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, meal, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeNotAuthenticated     = "NOT_AUTHENTICATED"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeMealNotFound         = "MEAL_NOT_FOUND"
	ErrCodeRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	ErrCodeCSRFValidationFailed = "CSRF_VALIDATION_FAILED"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// NewNotAuthenticatedError はセッションCookieが提示されていない場合のエラーを生成する。
func NewNotAuthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeNotAuthenticated,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "POST /users でユーザー登録を行い、発行されたセッションCookieを付与してください。",
	}
}

// NewUserNotFoundError はセッショントークンに対応するユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ユーザー登録をやり直してください。",
	}
}

// NewMealNotFoundError は食事が存在しないか、呼び出し元の所有でない場合のエラーを生成する。
func NewMealNotFoundError(mealID string) *APIError {
	return &APIError{
		Code:     ErrCodeMealNotFound,
		Message:  fmt.Sprintf("指定された食事が見つかりません: %s", mealID),
		Category: "meal",
		Action:   "食事IDを確認してください。",
	}
}

// NewInvalidRequestError はリクエストボディを解析できない場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewRateLimitExceededError はレート制限を超過した場合のエラーを生成する。
func NewRateLimitExceededError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimitExceeded,
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "Retry-Afterに示された秒数だけ待ってから再度お試しください。",
	}
}

// NewCSRFValidationError はCSRFトークンの検証に失敗した場合のエラーを生成する。
func NewCSRFValidationError() *APIError {
	return &APIError{
		Code:     ErrCodeCSRFValidationFailed,
		Message:  "CSRFトークンの検証に失敗しました。",
		Category: "auth",
		Action:   "csrf_token CookieとX-CSRF-Tokenヘッダーに同じ値を設定してください。",
	}
}

// NewInternalError は分類されない内部エラーの利用者向け表現を生成する。
// 詳細はログのみに記録し、レスポンスには含めない。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// ValidationError はリクエストフィールドの検証エラーを表す。
// フィールド名ごとに人間が読めるメッセージを1つ保持する。
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError は空のValidationErrorを生成する。
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add はフィールドのエラーメッセージを追加する。同じフィールドは最初のメッセージを優先する。
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

// HasErrors はエラーが1件以上あるかどうかを返す。
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error はerrorインターフェースを実装する。フィールド名順に連結する。
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return fmt.Sprintf("[%s] %s", ErrCodeValidation, strings.Join(parts, "; "))
}

// APIError はValidationErrorを統一エラーフォーマットに変換する。
func (e *ValidationError) APIError() *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  "入力内容に誤りがあります。",
		Category: "validation",
		Action:   "fieldsに示された項目を修正してください。",
	}
}
