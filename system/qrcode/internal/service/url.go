package service

import (
	"net/url"
	"strings"

	errorc "qrhub/pkg/core/err"
)

// CheckTargetURL 目标地址必须是带 host 的 http(s) 绝对地址，合法时返回 nil
func CheckTargetURL(field, raw string) *errorc.FieldError {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &errorc.FieldError{Field: field, Message: field + "不能为空"}
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &errorc.FieldError{Field: field, Message: field + "必须是有效的绝对地址"}
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return &errorc.FieldError{Field: field, Message: field + "只支持 http 或 https"}
	}
	return nil
}
