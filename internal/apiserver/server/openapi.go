package server

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"jobboard/internal/apiserver/respond"
	"jobboard/internal/shared/apperr"
)

// requestValidator 按 OpenAPI 契约校验请求的形状
//
// 契约中的请求体只约束字段类型，必填与取值范围由领域层判断，
// 以保证权限错误先于字段错误返回。契约未声明的路径直接放行。
type requestValidator struct {
	router routers.Router
}

func newRequestValidator(spec []byte) (*requestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, errors.Wrap(err, "load openapi spec")
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, errors.Wrap(err, "invalid openapi spec")
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, errors.Wrap(err, "build openapi router")
	}
	return &requestValidator{router: router}, nil
}

// Middleware 校验失败返回 400 validation_error
func (v *requestValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			respond.Message(w, http.StatusBadRequest, apperr.KindValidation, validationMessage(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			return "invalid parameter " + reqErr.Parameter.Name
		}
		if reqErr.RequestBody != nil {
			var schemaErr *openapi3.SchemaError
			if errors.As(reqErr.Err, &schemaErr) && len(schemaErr.JSONPointer()) > 0 {
				return "invalid field " + schemaErr.JSONPointer()[0]
			}
			return "invalid request body"
		}
		if reqErr.Reason != "" {
			return reqErr.Reason
		}
	}
	return "request does not match API contract"
}
