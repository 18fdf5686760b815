// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// SessionIDは登録時に一度だけ割り当てられ、以降のリクエストで再利用される（ローテーションしない）。
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	SessionID *string   `json:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
