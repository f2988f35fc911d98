// Package respond HTTP 响应辅助：JSON 输出、错误映射、请求体解析
package respond

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"jobboard/internal/shared/apperr"
	"jobboard/pkg/logging"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// ErrorBody 错误响应体
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// JSON 将数据以 JSON 格式写入 HTTP 响应
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Message 写入指定状态码与类别的错误响应
func Message(w http.ResponseWriter, status int, kind apperr.Kind, message string) {
	JSON(w, status, ErrorBody{Error: message, Kind: kind.String()})
}

// Error 按错误类别写入响应，Unexpected 错误只记录日志不暴露细节
func Error(w http.ResponseWriter, r *http.Request, log *logging.Logger, op string, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindUnexpected && log != nil {
		log.WithContext(r.Context()).Error("["+log.Component()+"] "+op+" error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
	}
	Message(w, kind.HTTPStatus(), kind, apperr.PublicMessage(err))
}

// Decode 解析 JSON 请求体，格式错误归类为 Validation
func Decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

// NoContent 写入 204
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
