package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误中使用 JSON 字段名，便于前端定位
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct 校验请求体，返回首个未通过的字段
func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{Field: fieldErrs[0].Field(), Rule: fieldErrs[0].Tag()}
	}
	return err
}

// validateEmployeeCode 员工编号 1–10 个字符
func validateEmployeeCode(code string) error {
	if err := validate.Var(code, "required,max=10"); err != nil {
		var fieldErrs validator.ValidationErrors
		rule := "required"
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			rule = fieldErrs[0].Tag()
		}
		return &ValidationError{Field: "employee_code", Rule: rule}
	}
	return nil
}
