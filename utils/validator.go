package utils

import (
	"strings"
	"sync"

	errorc "qrhub/pkg/core/err"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	translator   ut.Translator
	validateOnce sync.Once
)

// GetValidator 获取全局验证器实例
func GetValidator() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		validate, translator = NewValidator()
	})
	return validate, translator
}

// FieldErrors 校验请求体，返回全部字段错误，便于与业务校验结果合并
func FieldErrors(data interface{}) []errorc.FieldError {
	v, trans := GetValidator()
	return ValidateStruct(v, trans, data)
}

// MergeFieldErrors 合并多层校验结果，同一字段只保留先出现的一条
func MergeFieldErrors(layers ...[]errorc.FieldError) []errorc.FieldError {
	seen := make(map[string]struct{})
	var merged []errorc.FieldError
	for _, layer := range layers {
		for _, f := range layer {
			if _, ok := seen[f.Field]; ok {
				continue
			}
			seen[f.Field] = struct{}{}
			merged = append(merged, f)
		}
	}
	return merged
}

// Validate 校验请求体，失败时返回带字段明细的参数错误
func Validate(data interface{}) error {
	fields := FieldErrors(data)
	if len(fields) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	return errorc.New(strings.Join(msgs, "; "), nil).WithFields(fields...)
}
