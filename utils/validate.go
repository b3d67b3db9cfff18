package utils

import (
	"errors"
	"reflect"
	"strings"

	errorc "qrhub/pkg/core/err"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// 常见中文错误信息映射
var customErrorMessages = map[string]string{
	"required": "不能为空",
	"min":      "长度必须至少为{0}",
	"max":      "长度不能超过{0}",
	"oneof":    "必须是[{0}]中的一个",
	"gte":      "必须大于或等于{0}",
	"lte":      "必须小于或等于{0}",
	"url":      "必须是有效的URL",
	"http_url": "必须是有效的 http(s) 地址",
	"uuid":     "必须是有效的UUID",
}

// NewValidator 创建一个支持中文错误信息的验证器，字段名取 json 标签
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	zhTrans := zh.New()
	uni := ut.New(zhTrans, zhTrans)
	trans, _ := uni.GetTranslator("zh")

	_ = zh_translations.RegisterDefaultTranslations(validate, trans)

	for tag, msg := range customErrorMessages {
		registerCustomTranslation(validate, trans, tag, msg)
	}

	return validate, trans
}

// 注册自定义翻译
func registerCustomTranslation(validate *validator.Validate, trans ut.Translator, tag string, message string) {
	_ = validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		switch tag {
		case "oneof":
			return fe.Field() + "必须是[" + fe.Param() + "]中的一个"
		case "min", "max", "gte", "lte":
			t, _ := ut.T(fe.Tag(), fe.Param())
			return fe.Field() + t
		default:
			return fe.Field() + message
		}
	})
}

// ValidateStruct 校验结构体，返回全部字段的错误明细
func ValidateStruct(validate *validator.Validate, trans ut.Translator, s interface{}) []errorc.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []errorc.FieldError{{Field: "body", Message: err.Error()}}
	}

	fields := make([]errorc.FieldError, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, errorc.FieldError{
			Field:   fieldPath(e),
			Message: e.Translate(trans),
		})
	}
	return fields
}

// fieldPath 去掉顶层结构体名，保留嵌套路径，如 campaign.endDate
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}
