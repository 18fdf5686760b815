package model

import "time"

// MealDateLayout は永続化する食事日時の固定テキスト形式。
// ストアでの並び順と下流のパースはこの形式に依存する。
const MealDateLayout = "2006-01-02 15:04:05"

// Meal はユーザーが記録した1回分の食事を表す。
type Meal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        string    `json:"date"` // MealDateLayout形式
	IsOnTheDiet bool      `json:"is_on_the_diet"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"user_id"`
}

// MealInput は検証・正規化済みの食事入力値。
// 作成と全項目置換の更新の両方で使用する。
type MealInput struct {
	Name        string
	Description string
	Date        string // MealDateLayout形式に正規化済み
	IsOnTheDiet bool
}

// Overview はユーザーの食事履歴の集計結果。
type Overview struct {
	TotalMeals             int `json:"totalMeals"`
	TotalMealsOnTheDiet    int `json:"totalMealsOnTheDiet"`
	TotalMealsNotOnTheDiet int `json:"totalMealsNotOnTheDiet"`
	BestSequenceOnTheDiet  int `json:"bestSequenceOnTheDiet"`
}
