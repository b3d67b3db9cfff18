package errorc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime"
	"strings"
	"sync"

	"qrhub/pkg/core/consts"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	enableFullStack = true
	stackBufferPool = sync.Pool{
		New: func() interface{} {
			return make([]byte, 4096)
		},
	}
)

type ErrorBuilder struct {
	entryName string
}

func NewErrorBuilder(entryName string) *ErrorBuilder {
	return &ErrorBuilder{entryName: entryName}
}

func (e *ErrorBuilder) New(msg string, err error) *Error {
	stack := getStackOptimized(2)
	stack.Msg = msg
	stack.Cause = err
	stack.Entry = e.entryName
	stack.ErrorCode = getErrCode(err)
	return stack
}

// New err or msg can nil
func New(msg string, err error) *Error {
	stack := getStackOptimized(2)
	stack.Msg = msg
	stack.Cause = err
	stack.ErrorCode = getErrCode(err)
	return stack
}

func (e *Error) WithTraceID(ctx context.Context) *Error {
	e.TraceID = ""
	if ctx != nil {
		if id, ok := ctx.Value(consts.TraceKey).(string); ok {
			e.TraceID = id
		}
	}
	return e
}

func (e *Error) WithCode(code *ErrorCode) *Error {
	e.ErrorCode = code
	return e
}

// WithFields 附加字段级错误明细，并标记为参数错误
func (e *Error) WithFields(fields ...FieldError) *Error {
	e.Fields = append(e.Fields, fields...)
	e.ErrorCode = ErrorCodeValid
	return e
}

func (e *Error) DB() *Error {
	if e.ErrorCode != nil && e.Code == 404 {
		return e
	}
	e.ErrorCode = ErrorCodeDB
	return e
}

func (e *Error) Third() *Error {
	e.ErrorCode = ErrorCodeThird
	return e
}

func (e *Error) ValidWithCtx() *Error {
	e.ErrorCode = ErrorCodeValid
	return e
}

func (e *Error) NoAuth() *Error {
	e.ErrorCode = ErrorCodeNoAuth
	return e
}

func (e *Error) NotFound() *Error {
	e.ErrorCode = ErrorCodeNotFound
	return e
}

func (e *Error) Unavailable() *Error {
	e.ErrorCode = ErrorCodeUnavailable
	return e
}

func (e *Error) StaticImmutable() *Error {
	e.ErrorCode = ErrorCodeStaticImmutable
	return e
}

func (e *Error) InvalidState() *Error {
	e.ErrorCode = ErrorCodeInvalidState
	return e
}

func (e *Error) NotActive() *Error {
	e.ErrorCode = ErrorCodeNotActive
	return e
}

func (e *Error) Expired() *Error {
	e.ErrorCode = ErrorCodeExpired
	return e
}

// Unwrap 支持 errors.Is / errors.As 穿透错误链
func (e *Error) Unwrap() error {
	return e.Cause
}

// chain 收集错误链并定位根因（第一个包装了非 *Error 错误的节点）
func (e *Error) chain() ([]*Error, *Error, error) {
	var errChain []*Error
	for curr := e; curr != nil; {
		errChain = append(errChain, curr)
		cause, ok := curr.Cause.(*Error)
		if !ok {
			break
		}
		curr = cause
	}

	for i := len(errChain) - 1; i >= 0; i-- {
		if errChain[i].Cause == nil {
			continue
		}
		if _, ok := errChain[i].Cause.(*Error); !ok {
			return errChain, errChain[i], errChain[i].Cause
		}
	}

	root := errChain[len(errChain)-1]
	return errChain, root, root.Cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	errChain, rootCause, originalError := e.chain()

	var sb strings.Builder
	sb.WriteString("========================= Root Cause =========================\n")
	if originalError != nil {
		sb.WriteString(fmt.Sprintf("Error: %s\n", originalError.Error()))
	}
	if rootCause.FileName != "" {
		sb.WriteString(fmt.Sprintf("Location: %s:%d\n", rootCause.FileName, rootCause.Line))
	}
	if rootCause.FuncName != "" {
		sb.WriteString(fmt.Sprintf("Function: %s\n", rootCause.FuncName))
	}
	if rootCause.Msg != "" {
		sb.WriteString(fmt.Sprintf("Message: %s\n", rootCause.Msg))
	}
	for _, f := range e.Fields {
		sb.WriteString(fmt.Sprintf("Field: %s\n", f.String()))
	}
	if rootCause.TraceID != "" {
		sb.WriteString(fmt.Sprintf("Trace ID: %s\n", rootCause.TraceID))
	}

	sb.WriteString("\n======================= Full Error Trace =======================\n")
	for i, err := range errChain {
		sb.WriteString(fmt.Sprintf("%d: ", i+1))
		if err.ErrorCode != nil {
			sb.WriteString(fmt.Sprintf("[%s] ", err.ErrorCode.String()))
		}
		sb.WriteString(err.Msg)
		if err.FileName != "" {
			sb.WriteString(fmt.Sprintf("\n   at %s:%d", err.FileName, err.Line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("==============================================================\n")

	return sb.String()
}

// RootCause returns a simple string representing the root cause of the error.
func (e *Error) RootCause() string {
	if e == nil {
		return ""
	}

	_, rootCause, originalError := e.chain()

	var sb strings.Builder
	sb.WriteString(rootCause.Msg)
	if originalError != nil {
		sb.WriteString(fmt.Sprintf(": %v", originalError))
	}
	if rootCause.FileName != "" {
		sb.WriteString(fmt.Sprintf(" at %s:%d", rootCause.FileName, rootCause.Line))
	}
	return sb.String()
}

func (e *Error) ToLog(log *logrus.Entry, msgs ...string) *Error {
	if e == nil {
		return nil
	}

	errChain, rootCause, originalError := e.chain()

	fields := make(map[string]interface{})
	fields["root_cause_file"] = rootCause.FileName
	fields["root_cause_line"] = rootCause.Line
	fields["root_cause_func"] = rootCause.FuncName
	fields["root_cause_msg"] = rootCause.Msg
	if originalError != nil {
		fields["root_cause_original_error"] = originalError.Error()
	}
	if rootCause.ErrorCode != nil {
		fields["root_cause_error_code"] = rootCause.ErrorCode.String()
	}

	chain := make([]map[string]interface{}, 0, len(errChain))
	for _, err := range errChain {
		level := map[string]interface{}{
			"file": err.FileName,
			"line": err.Line,
			"func": err.FuncName,
			"msg":  err.Msg,
		}
		if err.ErrorCode != nil {
			level["code"] = err.ErrorCode.String()
		}
		if err.TraceID != "" {
			level["trace_id"] = err.TraceID
		}
		// 只为最外层错误添加完整堆栈
		if err == e && enableFullStack {
			if stack := err.getFullStack(); stack != "" {
				level["stack_trace"] = stack
			}
		}
		chain = append(chain, level)
	}
	fields["error_chain"] = chain
	if len(e.Fields) > 0 {
		fields["fields"] = e.Fields
	}
	if e.TraceID != "" {
		fields["trace_id"] = e.TraceID
	}

	finalMsg := errChain[0].Msg
	if len(msgs) > 0 {
		finalMsg = strings.Join(msgs, ", ")
	}
	if finalMsg == "" {
		finalMsg = "An error occurred"
	}

	log.WithFields(fields).Error(finalMsg)
	return e
}

func getStackOptimized(num int) *Error {
	pc, file, line, ok := runtime.Caller(num)
	if !ok {
		return &Error{
			FileName: "<unknown>",
			FuncName: "<unknown>",
		}
	}

	funcName := "<unknown>"
	if details := runtime.FuncForPC(pc); details != nil {
		funcName = details.Name()
	}

	return &Error{
		FileName: file,
		Line:     line,
		FuncName: funcName,
	}
}

// getFullStack 延迟获取完整堆栈信息
func (e *Error) getFullStack() string {
	if e.Stack != "" {
		return e.formatStack()
	}
	if !enableFullStack {
		return ""
	}

	buf := stackBufferPool.Get().([]byte)
	defer stackBufferPool.Put(buf)

	n := runtime.Stack(buf, false)
	e.Stack = string(buf[:n])
	return e.formatStack()
}

// SetStackTraceEnabled 控制是否启用完整堆栈跟踪
func SetStackTraceEnabled(enabled bool) {
	enableFullStack = enabled
}

func getErrCode(err error) *ErrorCode {
	if err == nil {
		return ErrorCodeUnknown
	}

	var e *Error
	if errors.As(err, &e) && e.ErrorCode != nil {
		return e.ErrorCode
	}

	for _, target := range notfounds {
		if errors.Is(err, target) {
			return ErrorCodeNotFound
		}
	}

	return ErrorCodeUnknown
}

var notfounds = []error{gorm.ErrRecordNotFound, redis.Nil, mongo.ErrNoDocuments}

// Quick 快速构造函数，不获取堆栈信息，适用于性能敏感场景
func Quick(msg string, err error) *Error {
	return &Error{
		Msg:       msg,
		Cause:     err,
		ErrorCode: getErrCode(err),
	}
}

func (e *ErrorBuilder) NotFound(msg string) *Error {
	return &Error{
		Msg:       msg,
		Entry:     e.entryName,
		ErrorCode: ErrorCodeNotFound,
	}
}

func (e *ErrorBuilder) Internal(msg string) *Error {
	return &Error{
		Msg:       msg,
		Entry:     e.entryName,
		ErrorCode: ErrorCodeInternal,
	}
}

// Validation 构造带字段明细的参数错误
func (e *ErrorBuilder) Validation(msg string, fields []FieldError) *Error {
	return &Error{
		Msg:       msg,
		Entry:     e.entryName,
		ErrorCode: ErrorCodeValid,
		Fields:    fields,
	}
}

func ParseError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return Quick(err.Error(), err)
}

// Is 判断错误链上最外层的 *Error 是否为指定错误码
func Is(err error, code *ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.ErrorCode == code
}

func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var e *Error
	if errors.As(err, &e) && e.ErrorCode == ErrorCodeNotFound {
		return true
	}

	for _, target := range notfounds {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// IsTransient 判断是否为可重试的存储瞬时故障（超时、连接中断）
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}

	return errors.Is(err, gorm.ErrInvalidDB)
}
