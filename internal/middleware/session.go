// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"net/http"

	"github.com/hitoshi/dailydiet/internal/model"
)

// SessionCookieName はセッショントークンを保持するCookieの名前。
const SessionCookieName = "sessionId"

// DefaultSessionMaxAge はセッションCookieの既定の有効期間（秒）。7日間。
const DefaultSessionMaxAge = 7 * 24 * 60 * 60

// SessionResolver はセッショントークンからユーザーを解決するインターフェース。
// session.Resolverが実装する。
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// AuthenticatedHandlerFunc は解決済みユーザーを引数として受け取るハンドラー。
// ユーザーはリクエストコンテキストではなく、明示的な引数として渡される。
type AuthenticatedHandlerFunc func(w http.ResponseWriter, r *http.Request, user *model.User)

// TokenHandlerFunc はセッショントークンの存在のみを要求するハンドラー。
type TokenHandlerFunc func(w http.ResponseWriter, r *http.Request, token string)

// Authenticator はセッションCookieを検証し、解決済みユーザーをハンドラーへ渡す。
type Authenticator struct {
	resolver SessionResolver
}

// NewAuthenticator はAuthenticatorを生成する。
func NewAuthenticator(resolver SessionResolver) *Authenticator {
	return &Authenticator{resolver: resolver}
}

// Require はユーザー解決を必須とするhttp.HandlerFuncを返す。
//   - Cookieなし: 401 NOT_AUTHENTICATED
//   - 該当ユーザーなし: 404 USER_NOT_FOUND
//   - ストア障害: 500 INTERNAL_ERROR
func (a *Authenticator) Require(next AuthenticatedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolver.Resolve(r.Context(), SessionToken(r))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		next(w, r, user)
	}
}

// RequireToken はセッショントークンの提示のみを要求するhttp.HandlerFuncを返す。
// トークンに対応するユーザーの解決はハンドラー側に委ねる。
func (a *Authenticator) RequireToken(next TokenHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)
		if token == "" {
			WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
			return
		}
		next(w, r, token)
	}
}

// SessionToken はリクエストのCookieからセッショントークンを取得する。
// Cookieがない場合は空文字を返す。
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// CookieConfig はセッションCookieの属性設定。
type CookieConfig struct {
	MaxAge int // 秒
	Secure bool
	Domain string
}

// SetSessionCookie はセッショントークンをHTTP Only Cookieとして設定する。
func SetSessionCookie(w http.ResponseWriter, token string, config CookieConfig) {
	maxAge := config.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
