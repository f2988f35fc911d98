// Package apperr 业务错误分类
//
// 核心层返回的所有失败都归入一个 Kind，API 层据此决定 HTTP 状态码。
// 底层基于 cockroachdb/errors，保留堆栈便于排查 Unexpected 错误。
package apperr

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Kind 错误类别
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidTransition
)

// String 返回对外展示的类别名
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidTransition:
		return "invalid_transition"
	default:
		return "unexpected"
	}
}

// HTTPStatus 类别对应的 HTTP 状态码
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindInvalidTransition:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newf(kind Kind, format string, args ...any) error {
	return errors.WithStackDepth(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)}, 2)
}

// Validation 输入格式错误或枚举值非法
func Validation(format string, args ...any) error {
	return newf(KindValidation, format, args...)
}

// Unauthorized 未认证
func Unauthorized(format string, args ...any) error {
	return newf(KindUnauthorized, format, args...)
}

// Forbidden 已认证但无权限
func Forbidden(format string, args ...any) error {
	return newf(KindForbidden, format, args...)
}

// NotFound 引用的实体不存在
func NotFound(format string, args ...any) error {
	return newf(KindNotFound, format, args...)
}

// Conflict 资源冲突（重复申请）
func Conflict(format string, args ...any) error {
	return newf(KindConflict, format, args...)
}

// InvalidTransition 当前状态不允许该操作
func InvalidTransition(format string, args ...any) error {
	return newf(KindInvalidTransition, format, args...)
}

// Wrap 包装基础设施错误，归类为 Unexpected
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// KindOf 返回错误类别，无法识别的错误一律为 Unexpected
func KindOf(err error) Kind {
	if err == nil {
		return KindUnexpected
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// PublicMessage 返回可展示给调用方的信息，Unexpected 错误不暴露内部细节
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUnexpected {
		return e.Message
	}
	return "internal error"
}
