package meal

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hitoshi/dailydiet/internal/model"
)

// MinTextLength は食事名・説明に必要な最小文字数（前後の空白除去後のルーン数）。
const MinTextLength = 3

// acceptedDateLayouts はNormalizeDateが受け付ける日時形式。先頭から順に試す。
var acceptedDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	model.MealDateLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// MealRequest は食事の作成・更新リクエストのボディ。
// 未指定と空値を区別するため、すべてのフィールドをポインタで受ける。
type MealRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	IsOnTheDiet *bool   `json:"isOnTheDiet"`
}

// ValidateMealRequest はリクエストを検証し、正規化済みのMealInputを返す。
// 検証エラーはフィールドごとに1件ずつ*model.ValidationErrorにまとめて返す。
func ValidateMealRequest(req MealRequest) (model.MealInput, error) {
	verr := model.NewValidationError()
	var input model.MealInput

	input.Name = validateText(verr, "name", req.Name)
	input.Description = validateText(verr, "description", req.Description)

	if req.Date == nil || strings.TrimSpace(*req.Date) == "" {
		verr.Add("date", "dateは必須です")
	} else {
		normalized, err := NormalizeDate(*req.Date)
		if err != nil {
			verr.Add("date", "dateは日付として解釈できる形式で指定してください")
		}
		input.Date = normalized
	}

	if req.IsOnTheDiet == nil {
		verr.Add("isOnTheDiet", "isOnTheDietは真偽値で指定してください")
	} else {
		input.IsOnTheDiet = *req.IsOnTheDiet
	}

	if verr.HasErrors() {
		return model.MealInput{}, verr
	}
	return input, nil
}

func validateText(verr *model.ValidationError, field string, value *string) string {
	if value == nil {
		verr.Add(field, field+"は必須です")
		return ""
	}
	trimmed := strings.TrimSpace(*value)
	if utf8.RuneCountInString(trimmed) < MinTextLength {
		verr.Add(field, fmt.Sprintf("%sは%d文字以上で入力してください", field, MinTextLength))
	}
	return trimmed
}

// NormalizeDate は日時文字列をUTCの "YYYY-MM-DD HH:MM:SS" 形式に正規化する。
// オフセット付きの入力はUTCへ変換してから整形する。オフセットなしの入力はUTCとみなす。
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range acceptedDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC().Format(model.MealDateLayout), nil
		}
	}
	return "", fmt.Errorf("日付を解析できません: %q", raw)
}
