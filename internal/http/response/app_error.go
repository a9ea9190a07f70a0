package response

import "github.com/gin-gonic/gin"

// 错误类别，随错误响应写入 data.kind，供客户端按类别分支处理
const (
	KindValidation   = "validation"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindRateLimited  = "rate_limited"
	KindInternal     = "internal"
)

// KindForCode 业务码对应的默认错误类别
func KindForCode(code int) string {
	switch code {
	case CodeBadRequest:
		return KindValidation
	case CodeUnauthorized:
		return KindUnauthorized
	case CodeForbidden:
		return KindForbidden
	case CodeNotFound:
		return KindNotFound
	case CodeConflict:
		return KindConflict
	case CodeTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}

// AppError 接口错误：业务码、错误类别、提示文案与原始错误
type AppError struct {
	Code    int
	Kind    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Kind + ": " + e.Message
	}
	return e.Kind + ": " + e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误，类别按业务码推导
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    KindForCode(code),
		Message: message,
		Err:     err,
	}
}

// WithKind 覆盖错误类别，空值忽略
func (e *AppError) WithKind(kind string) *AppError {
	if kind != "" {
		e.Kind = kind
	}
	return e
}

// Fail 按 AppError 输出错误响应，extra 合并进 data
func Fail(c *gin.Context, e *AppError, extra gin.H) {
	data := gin.H{"kind": e.Kind}
	for key, value := range extra {
		data[key] = value
	}
	ErrorWithData(c, e.Code, e.Message, data)
}
