// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/dailydiet/internal/model"
	"github.com/hitoshi/dailydiet/internal/repository"
)

// MaxUsernameLength はユーザー名の最大文字数。
const MaxUsernameLength = 100

// Service はユーザー管理のサービス層。
// ユーザー登録とセッショントークンの発行を提供する。
type Service struct {
	userRepo repository.UserRepository
	newToken func() string
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
		newToken: uuid.NewString,
		now:      time.Now,
	}
}

// Register はユーザーを登録し、紐付けたセッショントークンを返す。
// issuedはトークンを新規発行した場合にtrueとなり、呼び出し側はCookieを設定する。
//
// presentedTokenが指定された場合は常にそのトークンを再利用する（issued=false）。
// 既にユーザーに紐付いている場合は新たな行を作らず、そのまま返す。
// 1トークンに紐付くユーザーは高々1人に保たれる。
func (s *Service) Register(ctx context.Context, username, presentedToken string) (token string, issued bool, err error) {
	name, err := ValidateUsername(username)
	if err != nil {
		return "", false, err
	}

	token = presentedToken
	if token == "" {
		token = s.newToken()
		issued = true
	} else {
		existing, err := s.userRepo.FindBySessionID(ctx, token)
		if err != nil {
			return "", false, fmt.Errorf("セッションの確認に失敗しました: %w", err)
		}
		if existing != nil {
			slog.Info("登録済みのセッションを再利用しました",
				slog.String("user_id", existing.ID),
			)
			return token, false, nil
		}
	}

	user := &model.User{
		ID:        uuid.NewString(),
		Username:  name,
		SessionID: &token,
		CreatedAt: s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 確認後に同じトークンで並行登録された場合は一意制約で検出される。既存の紐付けを再利用する
		if !issued && errors.Is(err, repository.ErrSessionAlreadyBound) {
			return token, false, nil
		}
		return "", false, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("ユーザーを登録しました",
		slog.String("user_id", user.ID),
		slog.Bool("token_issued", issued),
	)
	return token, issued, nil
}

// ValidateUsername は前後の空白を除去したユーザー名を検証して返す。
func ValidateUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	verr := model.NewValidationError()
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		verr.Add("username", "usernameは必須です")
	case n > MaxUsernameLength:
		verr.Add("username", fmt.Sprintf("usernameは%d文字以内で入力してください", MaxUsernameLength))
	}
	if verr.HasErrors() {
		return "", verr
	}
	return name, nil
}
