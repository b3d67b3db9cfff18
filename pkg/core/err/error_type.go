package errorc

import (
	"fmt"
	"strings"
)

type Error struct {
	*ErrorCode
	Msg      string
	Cause    error
	Fields   []FieldError
	Stack    string `json:"-"`
	TraceID  string
	Entry    string `json:"-"`
	FileName string `json:"-"`
	Line     int    `json:"-"`
	FuncName string `json:"-"`
}

// FieldError 字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

func (e *Error) formatStack() string {
	if e.Stack == "" {
		return ""
	}

	lines := strings.Split(e.Stack, "\n")
	var filteredLines []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.Contains(line, "/go/pkg/mod") || strings.Contains(line, "github.com/") {
			continue
		}
		// 跳过错误包内部的调用
		if strings.Contains(line, "qrhub/pkg/core/err.") || strings.Contains(line, "qrhub/pkg/core/err/error.go") {
			continue
		}
		filteredLines = append(filteredLines, line)
	}

	if len(filteredLines) == 0 {
		return ""
	}

	return strings.Join(filteredLines, "\n")
}

type ErrorCode struct {
	Code int
	Name string
}

func (c *ErrorCode) String() string {
	return fmt.Sprintf("%d: %s", c.Code, c.Name)
}

var (
	ErrorCodeUnknown     *ErrorCode = &ErrorCode{500, "Unknown"}
	ErrorCodeDB          *ErrorCode = &ErrorCode{501, "DB"}
	ErrorCodeThird       *ErrorCode = &ErrorCode{502, "Third"}
	ErrorCodeValid       *ErrorCode = &ErrorCode{400, "ValidWithCtx"}
	ErrorCodeNoAuth      *ErrorCode = &ErrorCode{401, "Unauthenticated"}
	ErrorCodeForbidden   *ErrorCode = &ErrorCode{403, "Forbidden"}
	ErrorCodeNotFound    *ErrorCode = &ErrorCode{404, "NotFound"}
	ErrorCodeUnavailable *ErrorCode = &ErrorCode{503, "Unavailable"}
	ErrorCodeInternal    *ErrorCode = &ErrorCode{503, "InternalError"}

	// 状态流转类错误
	ErrorCodeStaticImmutable *ErrorCode = &ErrorCode{409, "StaticImmutable"}
	ErrorCodeInvalidState    *ErrorCode = &ErrorCode{409, "InvalidState"}

	// 活动排期类结果，由跳转层渲染专门页面
	ErrorCodeNotActive *ErrorCode = &ErrorCode{425, "NotActive"}
	ErrorCodeExpired   *ErrorCode = &ErrorCode{410, "Expired"}
)
