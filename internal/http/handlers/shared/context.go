package shared

import (
	"strings"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAuthorID 读取鉴权中间件写入的作者 ID，缺失时直接返回 401。
func GetAuthorID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyAuthorID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return "", false
	}
	authorID, ok := value.(string)
	if !ok || strings.TrimSpace(authorID) == "" {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return "", false
	}
	return authorID, true
}
