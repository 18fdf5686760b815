// Package meal は食事記録のドメインロジックを提供する。
//
// すべての操作は認証済みユーザーのIDでスコープされ、
// 他のユーザーの食事は存在しないものとして扱う。
package meal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/dailydiet/internal/model"
	"github.com/hitoshi/dailydiet/internal/repository"
	"github.com/hitoshi/dailydiet/internal/security"
)

// Service は食事記録のサービス層。
type Service struct {
	mealRepo  repository.MealRepository
	sanitizer security.TextSanitizer
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// sanitizerがnilの場合は入力テキストをそのまま扱う。
func NewService(mealRepo repository.MealRepository, sanitizer security.TextSanitizer) *Service {
	return &Service{
		mealRepo:  mealRepo,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// List はユーザーの全食事を日時の昇順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]model.Meal, error) {
	meals, err := s.mealRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("食事一覧の取得に失敗しました: %w", err)
	}
	if meals == nil {
		meals = []model.Meal{}
	}
	return meals, nil
}

// Get はユーザー所有の食事を1件取得する。
func (s *Service) Get(ctx context.Context, userID, mealID string) (*model.Meal, error) {
	mealID, err := validateMealID(mealID)
	if err != nil {
		return nil, err
	}

	meal, err := s.mealRepo.FindByIDAndUser(ctx, mealID, userID)
	if err != nil {
		return nil, fmt.Errorf("食事の取得に失敗しました: %w", err)
	}
	if meal == nil {
		return nil, model.NewMealNotFoundError(mealID)
	}
	return meal, nil
}

// Create は食事を記録し、生成したIDを返す。
func (s *Service) Create(ctx context.Context, userID string, req MealRequest) (string, error) {
	input, err := ValidateMealRequest(s.sanitize(req))
	if err != nil {
		return "", err
	}

	meal := &model.Meal{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Date:        input.Date,
		IsOnTheDiet: input.IsOnTheDiet,
		CreatedAt:   s.now().UTC(),
		UserID:      userID,
	}
	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return "", fmt.Errorf("食事の作成に失敗しました: %w", err)
	}

	slog.Info("食事を記録しました",
		slog.String("user_id", userID),
		slog.String("meal_id", meal.ID),
		slog.Bool("is_on_the_diet", meal.IsOnTheDiet),
	)
	return meal.ID, nil
}

// Update は食事の全項目を置換する。
// 存在しないか他ユーザー所有の場合はMEAL_NOT_FOUNDを返す。
func (s *Service) Update(ctx context.Context, userID, mealID string, req MealRequest) error {
	mealID, err := validateMealID(mealID)
	if err != nil {
		return err
	}
	input, err := ValidateMealRequest(s.sanitize(req))
	if err != nil {
		return err
	}

	if err := s.mealRepo.UpdateByIDAndUser(ctx, mealID, userID, input); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return model.NewMealNotFoundError(mealID)
		}
		return fmt.Errorf("食事の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は食事を削除する。
// 存在しないか他ユーザー所有の場合はMEAL_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, userID, mealID string) error {
	mealID, err := validateMealID(mealID)
	if err != nil {
		return err
	}

	if err := s.mealRepo.DeleteByIDAndUser(ctx, mealID, userID); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return model.NewMealNotFoundError(mealID)
		}
		return fmt.Errorf("食事の削除に失敗しました: %w", err)
	}

	slog.Info("食事を削除しました",
		slog.String("user_id", userID),
		slog.String("meal_id", mealID),
	)
	return nil
}

// sanitize は名前と説明からHTMLマークアップを除去したリクエストを返す。
func (s *Service) sanitize(req MealRequest) MealRequest {
	if s.sanitizer == nil {
		return req
	}
	if req.Name != nil {
		name := s.sanitizer.Sanitize(*req.Name)
		req.Name = &name
	}
	if req.Description != nil {
		desc := s.sanitizer.Sanitize(*req.Description)
		req.Description = &desc
	}
	return req
}

// validateMealID は食事IDを検証し、正規形（小文字・ハイフン区切り）に揃えて返す。
func validateMealID(mealID string) (string, error) {
	parsed, err := uuid.Parse(mealID)
	if err != nil {
		verr := model.NewValidationError()
		verr.Add("id", "食事IDの形式が正しくありません")
		return "", verr
	}
	return parsed.String(), nil
}
