// Package session はセッショントークンから所有ユーザーを解決する。
package session

import (
	"context"
	"fmt"

	"github.com/hitoshi/dailydiet/internal/model"
)

// UserFinder はセッショントークンでユーザーを検索するインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindBySessionID(ctx context.Context, sessionID string) (*model.User, error)
	ListBySessionID(ctx context.Context, sessionID string) ([]*model.User, error)
}

// Resolver はセッショントークンを所有ユーザーに解決する。読み取り専用。
type Resolver struct {
	users UserFinder
}

// NewResolver はResolverを生成する。
func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

// Resolve はトークンに紐付くユーザーを返す。
//   - トークンが空: NOT_AUTHENTICATED（ストアへは問い合わせない）
//   - 該当ユーザーなし: USER_NOT_FOUND
//   - ストアエラー: ラップしてそのまま返す
func (r *Resolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, model.NewNotAuthenticatedError()
	}

	user, err := r.users.FindBySessionID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// ListBySession はトークンに紐付くユーザーの一覧を返す。
// トークンの存在のみを前提とし、該当0件は空スライスで返す。
func (r *Resolver) ListBySession(ctx context.Context, token string) ([]*model.User, error) {
	if token == "" {
		return nil, model.NewNotAuthenticatedError()
	}

	users, err := r.users.ListBySessionID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list session users: %w", err)
	}

	return users, nil
}
