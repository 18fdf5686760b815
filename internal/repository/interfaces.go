// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/dailydiet/internal/model"
)

// ErrMealNotFound は更新・削除対象の食事が存在しないか、所有者が異なる場合のエラー。
// 影響行数0件をこのエラーとして報告する。
var ErrMealNotFound = errors.New("meal not found")

// ErrSessionAlreadyBound はセッションIDが既に別のユーザーに紐付いている場合のエラー。
var ErrSessionAlreadyBound = errors.New("session already bound to a user")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindBySessionID はセッションIDに紐付くユーザーを取得する。見つからない場合はnilを返す。
	FindBySessionID(ctx context.Context, sessionID string) (*model.User, error)

	// ListBySessionID はセッションIDに紐付くユーザーの一覧を返す。
	ListBySessionID(ctx context.Context, sessionID string) ([]*model.User, error)

	// Create はユーザーを作成する。
	// セッションIDが既に使われている場合はErrSessionAlreadyBoundを返す。
	Create(ctx context.Context, user *model.User) error
}

// MealRepository は食事データの永続化インターフェース。
// すべての操作は所有ユーザーIDでスコープされる。
type MealRepository interface {
	// ListByUser はユーザーの全食事を date, created_at の昇順で返す。
	ListByUser(ctx context.Context, userID string) ([]model.Meal, error)

	// FindByIDAndUser は指定IDかつ指定ユーザー所有の食事を取得する。見つからない場合はnilを返す。
	FindByIDAndUser(ctx context.Context, id, userID string) (*model.Meal, error)

	// Create は食事を作成する。
	Create(ctx context.Context, meal *model.Meal) error

	// UpdateByIDAndUser は食事の全項目を置換する。
	// 影響行数0件の場合はErrMealNotFoundを返す。
	UpdateByIDAndUser(ctx context.Context, id, userID string, input model.MealInput) error

	// DeleteByIDAndUser は食事を削除する。
	// 影響行数0件の場合はErrMealNotFoundを返す。
	DeleteByIDAndUser(ctx context.Context, id, userID string) error
}
