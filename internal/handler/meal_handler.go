package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dailydiet/internal/meal"
	"github.com/hitoshi/dailydiet/internal/metrics"
	"github.com/hitoshi/dailydiet/internal/model"
)

// MealServiceInterface は食事ハンドラーが必要とするサービスインターフェース。
// すべての操作は認証済みユーザーのIDでスコープされる。
type MealServiceInterface interface {
	List(ctx context.Context, userID string) ([]model.Meal, error)
	Get(ctx context.Context, userID, mealID string) (*model.Meal, error)
	Create(ctx context.Context, userID string, req meal.MealRequest) (string, error)
	Update(ctx context.Context, userID, mealID string, req meal.MealRequest) error
	Delete(ctx context.Context, userID, mealID string) error
}

// MealHandler は食事記録のHTTPハンドラー。
type MealHandler struct {
	service MealServiceInterface
	metrics metrics.MetricsCollector
}

// NewMealHandler はMealHandlerを生成する。
func NewMealHandler(service MealServiceInterface, collector metrics.MetricsCollector) *MealHandler {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &MealHandler{
		service: service,
		metrics: collector,
	}
}

// mealsResponse は食事一覧のAPIレスポンス。
type mealsResponse struct {
	User  *model.User  `json:"user"`
	Meals []model.Meal `json:"meals"`
}

// mealResponse は食事詳細のAPIレスポンス。
type mealResponse struct {
	Meal *model.Meal `json:"meal"`
}

// ListMeals はユーザーの全食事を返す。
// GET /meals
func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request, user *model.User) {
	meals, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mealsResponse{User: user, Meals: meals})
}

// GetMeal は食事を1件返す。
// GET /meals/{id}
func (h *MealHandler) GetMeal(w http.ResponseWriter, r *http.Request, user *model.User) {
	m, err := h.service.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mealResponse{Meal: m})
}

// CreateMeal は食事を記録する。
// POST /meals
func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req meal.MealRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if _, err := h.service.Create(r.Context(), user.ID, req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.metrics.RecordMealCreated(req.IsOnTheDiet != nil && *req.IsOnTheDiet)

	w.WriteHeader(http.StatusCreated)
}

// UpdateMeal は食事の全項目を置換する。
// PUT /meals/{id}
func (h *MealHandler) UpdateMeal(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req meal.MealRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteMeal は食事を削除する。
// DELETE /meals/{id}
func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request, user *model.User) {
	if err := h.service.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.metrics.RecordMealDeleted()

	w.WriteHeader(http.StatusNoContent)
}
