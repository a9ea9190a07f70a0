package author

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

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var postCommonErrorRules = []mappedHandlerError{
	{target: service.ErrPostNotFound, code: response.CodeNotFound, msg: "post not found"},
	{target: service.ErrAuthorRequired, code: response.CodeUnauthorized, msg: "unauthorized"},
}

var postWriteErrorRules = []mappedHandlerError{
	{target: service.ErrSlugConflict, code: response.CodeConflict, msg: "slug already exists"},
	{target: service.ErrPublishStateInvariant, code: response.CodeInternal, msg: "post publish state is inconsistent"},
}

var postPublishErrorRules = []mappedHandlerError{
	{target: service.ErrPostAlreadyPublished, code: response.CodeBadRequest, msg: "post is already published"},
	{target: service.ErrPostArchived, code: response.CodeBadRequest, msg: "archived post cannot be published"},
}

var postListErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidPage, code: response.CodeBadRequest, msg: "page must be a positive integer"},
	{target: service.ErrInvalidLimit, code: response.CodeBadRequest, msg: "limit must be a positive integer"},
	{target: service.ErrPageTooLarge, code: response.CodeBadRequest, msg: "page is out of range"},
}

func respondPostCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(postCommonErrorRules, postWriteErrorRules), "post create failed")
}

func respondPostUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(postCommonErrorRules, postWriteErrorRules), "post update failed")
}

func respondPostPublishError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(postCommonErrorRules, postWriteErrorRules, postPublishErrorRules), "post publish failed")
}

func respondPostFetchError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(postCommonErrorRules, postListErrorRules), "post fetch failed")
}
