// Package apitest HTTP 处理器测试辅助
package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"jobboard/internal/apiserver/auth"
	"jobboard/internal/core/policy"
)

// As 以指定调用方身份构造的认证用户，nil 表示匿名
func As(actor policy.Actor) *auth.AuthUser {
	return &auth.AuthUser{ID: actor.ID, Email: actor.ID + "@example.com", Role: actor.Role}
}

// Do 直接把认证用户注入 context 后调用 handler，绕过 JWT
func Do(t *testing.T, h http.Handler, method, path string, user *auth.AuthUser, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if user != nil {
		r = r.WithContext(auth.WithAuthUser(r.Context(), user))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// Decode 解析 JSON 响应体
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

// Kind 读取错误响应中的类别
func Kind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := Decode[map[string]string](t, w)
	return body["kind"]
}
