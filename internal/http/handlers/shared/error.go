package shared

import (
	"errors"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 兜底提示文案
const (
	MsgBadRequest        = "bad request"
	MsgValidationFailed  = "validation failed"
	MsgNotFound          = "resource not found"
	MsgConflict          = "resource conflict"
	MsgInvariantViolated = "post publish state is inconsistent"
	MsgInternal          = "internal server error"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err).WithKind(errorKind(code, err))
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"kind", appErr.Kind,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Fail(c, appErr, nil)
}

// RespondMappedError 返回已映射的业务错误；类别取自原始错误，不记录错误日志。
func RespondMappedError(c *gin.Context, code int, msg string, err error) {
	response.Fail(c, response.WrapError(code, msg, nil).WithKind(errorKind(code, err)), nil)
}

// RespondServiceError 按业务错误类别返回响应：
// 校验 400、不存在 404、冲突 409，不变量破坏与存储失败均为 500 但文案与类别不同。
func RespondServiceError(c *gin.Context, err error, fallbackMsg string) {
	if fallbackMsg == "" {
		fallbackMsg = MsgInternal
	}
	switch service.KindOf(err) {
	case service.KindValidation:
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			appErr := response.WrapError(response.CodeBadRequest, MsgValidationFailed, err)
			response.Fail(c, appErr, gin.H{"fields": vErr.Fields})
			return
		}
		RespondMappedError(c, response.CodeBadRequest, err.Error(), err)
	case service.KindNotFound:
		RespondMappedError(c, response.CodeNotFound, MsgNotFound, err)
	case service.KindConflict:
		RespondMappedError(c, response.CodeConflict, MsgConflict, err)
	case service.KindInvariant:
		RespondError(c, response.CodeInternal, MsgInvariantViolated, err)
	default:
		RespondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// errorKind 优先使用服务层错误类别；鉴权与限流类业务码按码推导
func errorKind(code int, err error) string {
	switch code {
	case response.CodeUnauthorized, response.CodeForbidden, response.CodeTooManyRequests:
		return response.KindForCode(code)
	}
	if kind := service.KindOf(err); kind != "" && kind != service.KindInternal {
		return string(kind)
	}
	return response.KindForCode(code)
}
