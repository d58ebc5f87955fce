// Package validator 提供统一的参数校验和错误转换
package validator

import (
	"github.com/KOMKZ/go-auth-service/errcode"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validatable 可校验接口
type Validatable interface {
	Validate() error
}

// ValidateRequest 通用校验函数
// 将 ozzo-validation 错误转换为 LayeredError
// 请求对象的 Validate 可直接返回 LayeredError（如缺少凭据），原样透传
func ValidateRequest(req Validatable) error {
	err := req.Validate()
	if err == nil {
		return nil
	}

	if validationErrs, ok := err.(validation.Errors); ok {
		return ConvertValidationError(validationErrs)
	}

	return err
}

// ConvertValidationError 将 ozzo-validation 错误转换为 LayeredError
func ConvertValidationError(validationErrs validation.Errors) error {
	fields := make(map[string]string)
	for field, fieldErr := range validationErrs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}

	return errcode.New(
		1, 1010, // 模块码 1 (common), 业务码 1010 (validation)
		"common",
		"VALIDATION FAILED",
		"参数校验失败",
		400,
	).WithData("fields", fields)
}
