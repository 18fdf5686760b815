package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/dailydiet/internal/model"
)

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFMiddleware_Validation(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		cookie     string
		header     string
		wantStatus int
	}{
		{"GET without token", http.MethodGet, "", "", http.StatusOK},
		{"HEAD without token", http.MethodHead, "", "", http.StatusOK},
		{"OPTIONS without token", http.MethodOptions, "", "", http.StatusOK},
		{"POST without cookie", http.MethodPost, "", "token", http.StatusForbidden},
		{"POST without header", http.MethodPost, "token", "", http.StatusForbidden},
		{"POST mismatch", http.MethodPost, "token-a", "token-b", http.StatusForbidden},
		{"POST matching", http.MethodPost, "token", "token", http.StatusOK},
		{"PUT matching", http.MethodPut, "token", "token", http.StatusOK},
		{"PATCH without token", http.MethodPatch, "", "", http.StatusForbidden},
		{"DELETE without token", http.MethodDelete, "", "", http.StatusForbidden},
		{"DELETE matching", http.MethodDelete, "token", "token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/meals", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeaderName, tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("handler called = %v, want %v", called, tt.wantStatus == http.StatusOK)
			}
			if tt.wantStatus == http.StatusForbidden {
				if code := decodeErrorCode(t, w); code != model.ErrCodeCSRFValidationFailed {
					t.Errorf("code = %q, want %q", code, model.ErrCodeCSRFValidationFailed)
				}
			}
		})
	}
}

func TestCSRFMiddleware_SafeMethodIssuesCookie(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{CookieDomain: "example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/meals", nil))

	c := findCookie(w.Result(), csrfCookieName)
	if c == nil {
		t.Fatal("expected CSRF cookie to be set on GET request")
	}
	if c.Value == "" || len(c.Value) != 64 {
		t.Errorf("unexpected token %q", c.Value)
	}
	if c.HttpOnly {
		t.Error("CSRF cookie should NOT be HttpOnly (frontend needs to read it)")
	}
	if c.SameSite != http.SameSiteLaxMode || c.Path != "/" || c.MaxAge != csrfTokenMaxAge {
		t.Errorf("unexpected cookie attributes: %+v", c)
	}

	// 既存のCookieがある場合は再発行しない
	req := httptest.NewRequest(http.MethodGet, "/meals", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing-token"})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if findCookie(w.Result(), csrfCookieName) != nil {
		t.Error("CSRF cookie should not be re-set when already present")
	}
}

func TestCSRFTokenHandler(t *testing.T) {
	h := NewCSRFTokenHandler(CSRFConfig{})

	decode := func(w *httptest.ResponseRecorder) string {
		t.Helper()
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return body.Token
	}

	t.Run("issues new token", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))

		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		c := findCookie(w.Result(), csrfCookieName)
		if c == nil {
			t.Fatal("expected CSRF cookie to be set")
		}
		if token := decode(w); token == "" || token != c.Value {
			t.Errorf("response token %q should equal cookie value %q", token, c.Value)
		}
	})

	t.Run("returns existing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/csrf-token", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing-csrf-token"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if token := decode(w); token != "existing-csrf-token" {
			t.Errorf("token = %q, want existing-csrf-token", token)
		}
		if findCookie(w.Result(), csrfCookieName) != nil {
			t.Error("existing token should not be re-issued")
		}
	})
}
