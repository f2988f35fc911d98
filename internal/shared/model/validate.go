package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// 错误信息使用 JSON 字段名
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("employment_type", func(fl validator.FieldLevel) bool {
			return EmploymentType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
			return UserRole(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Validate 按 validate tag 校验结构体，返回可直接展示给用户的错误信息
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "employment_type":
		return fmt.Sprintf("%s must be one of Full-time, Part-time, Contract, Internship", fe.Field())
	case "user_role":
		return fmt.Sprintf("%s must be one of admin, employer, job_seeker", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
