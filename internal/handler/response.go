package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/dailydiet/internal/middleware"
	"github.com/hitoshi/dailydiet/internal/model"
)

// maxBodyBytes はリクエストボディの上限サイズ。
const maxBodyBytes = 1 << 20

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPレスポンスに変換する。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.WriteError(w, r, err)
}

// decodeJSONBody はリクエストボディをdstにデコードする。
// 型の合わないフィールドはそのフィールドの検証エラーとし、
// 空ボディを含むそれ以外の解析失敗はINVALID_REQUESTとする。
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		verr := model.NewValidationError()
		verr.Add(typeErr.Field, typeErr.Field+"の型が正しくありません")
		return verr
	}
	return model.NewInvalidRequestError()
}
