package public

import (
	"errors"

	"github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			shared.RespondMappedError(c, rule.code, rule.msg, err)
			return
		}
	}
	shared.RespondServiceError(c, err, fallbackMsg)
}

var feedErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidPage, code: response.CodeBadRequest, msg: "page must be a positive integer"},
	{target: service.ErrInvalidLimit, code: response.CodeBadRequest, msg: "limit must be a positive integer"},
	{target: service.ErrLimitTooLarge, code: response.CodeBadRequest, msg: "limit exceeds the maximum"},
	{target: service.ErrPageTooLarge, code: response.CodeBadRequest, msg: "page is out of range"},
}

var postDetailErrorRules = []mappedHandlerError{
	{target: service.ErrPostNotFound, code: response.CodeNotFound, msg: "post not found"},
}

func respondFeedError(c *gin.Context, err error) {
	respondWithMappedError(c, err, feedErrorRules, "post fetch failed")
}

func respondPostDetailError(c *gin.Context, err error) {
	respondWithMappedError(c, err, postDetailErrorRules, "post fetch failed")
}
