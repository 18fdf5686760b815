package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/dailydiet/internal/metrics"
	"github.com/hitoshi/dailydiet/internal/middleware"
	"github.com/hitoshi/dailydiet/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register はユーザーを登録し、紐付けたセッショントークンと新規発行の有無を返す。
	Register(ctx context.Context, username, presentedToken string) (string, bool, error)
}

// SessionUserLister はセッショントークンに紐付くユーザー一覧を返すインターフェース。
type SessionUserLister interface {
	ListBySession(ctx context.Context, token string) ([]*model.User, error)
}

// OverviewServiceInterface は食事集計を提供するインターフェース。
type OverviewServiceInterface interface {
	Overview(ctx context.Context, userID string) (*model.Overview, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service  UserServiceInterface
	lister   SessionUserLister
	overview OverviewServiceInterface
	cookie   middleware.CookieConfig
	metrics  metrics.MetricsCollector
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(
	service UserServiceInterface,
	lister SessionUserLister,
	overview OverviewServiceInterface,
	cookie middleware.CookieConfig,
	collector metrics.MetricsCollector,
) *UserHandler {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &UserHandler{
		service:  service,
		lister:   lister,
		overview: overview,
		cookie:   cookie,
		metrics:  collector,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Username string `json:"username"`
}

// usersResponse はユーザー一覧のAPIレスポンス。
type usersResponse struct {
	Users []*model.User `json:"users"`
}

// overviewResponse は集計のAPIレスポンス。
type overviewResponse struct {
	User     *model.User     `json:"user"`
	Overview *model.Overview `json:"overview"`
}

// Register はユーザー登録を処理する。
// POST /users
// Cookieにセッショントークンがなければ新規発行してCookieに設定する。
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	token, issued, err := h.service.Register(r.Context(), req.Username, middleware.SessionToken(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if issued {
		middleware.SetSessionCookie(w, token, h.cookie)
	}
	h.metrics.RecordUserRegistered(issued)

	w.WriteHeader(http.StatusCreated)
}

// ListUsers はセッショントークンに紐付くユーザーを返す。
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request, token string) {
	users, err := h.lister.ListBySession(r.Context(), token)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []*model.User{}
	}

	writeJSON(w, http.StatusOK, usersResponse{Users: users})
}

// Overview は認証済みユーザーの食事集計を返す。
// GET /users/overview
func (h *UserHandler) Overview(w http.ResponseWriter, r *http.Request, user *model.User) {
	overview, err := h.overview.Overview(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse{User: user, Overview: overview})
}
