// Package overview はユーザーの食事履歴の集計を提供する。
package overview

import (
	"context"
	"fmt"

	"github.com/hitoshi/dailydiet/internal/model"
	"github.com/hitoshi/dailydiet/internal/streak"
)

// MealLister はユーザーの食事一覧を取得するインターフェース。
type MealLister interface {
	ListByUser(ctx context.Context, userID string) ([]model.Meal, error)
}

// Aggregator は食事件数と最長連続遵守記録を集計する。状態は持たない。
type Aggregator struct {
	meals MealLister
}

// NewAggregator はAggregatorを生成する。
func NewAggregator(meals MealLister) *Aggregator {
	return &Aggregator{meals: meals}
}

// Overview はユーザーの集計結果を返す。
// 連続記録はストアが返した順序のまま算出する。食事0件の場合はゼロ値を返す。
func (a *Aggregator) Overview(ctx context.Context, userID string) (*model.Overview, error) {
	meals, err := a.meals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals for overview: %w", err)
	}
	return Summarize(meals), nil
}

// Summarize は食事列から集計結果を算出する。
func Summarize(meals []model.Meal) *model.Overview {
	ov := &model.Overview{TotalMeals: len(meals)}
	for _, meal := range meals {
		if meal.IsOnTheDiet {
			ov.TotalMealsOnTheDiet++
		} else {
			ov.TotalMealsNotOnTheDiet++
		}
	}
	ov.BestSequenceOnTheDiet = streak.LongestDietStreak(meals)
	return ov
}
