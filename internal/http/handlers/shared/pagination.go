package shared

import (
	"strconv"
	"strings"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// ParsePagination 解析 page/limit 查询参数，缺省取默认值，非数字或非正数返回校验错误。
func ParsePagination(c *gin.Context, defaultLimit int) (int, int, error) {
	if defaultLimit <= 0 {
		defaultLimit = constants.DefaultPageLimit
	}
	page, err := parsePositiveQuery(c, "page", constants.DefaultPage, service.ErrInvalidPage)
	if err != nil {
		return 0, 0, err
	}
	limit, err := parsePositiveQuery(c, "limit", defaultLimit, service.ErrInvalidLimit)
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func parsePositiveQuery(c *gin.Context, key string, fallback int, invalid error) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return 0, invalid
	}
	return value, nil
}

// ToPagination 将服务层分页结果转换为响应结构
func ToPagination(p service.Pagination) response.Pagination {
	return response.Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	}
}
