package public

import (
	"github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetPosts 全部已发布文章，按创建时间倒序
func (h *Handler) GetPosts(c *gin.Context) {
	page, limit, err := shared.ParsePagination(c, h.defaultLimit())
	if err != nil {
		respondFeedError(c, err)
		return
	}

	result, err := h.FeedService.ListPublished(c.Request.Context(), page, limit)
	if err != nil {
		respondFeedError(c, err)
		return
	}
	response.SuccessWithPage(c, result.Posts, shared.ToPagination(result.Pagination))
}

// GetFeed 每位作者最新一篇已发布文章
func (h *Handler) GetFeed(c *gin.Context) {
	page, limit, err := shared.ParsePagination(c, h.defaultLimit())
	if err != nil {
		respondFeedError(c, err)
		return
	}

	result, err := h.FeedService.ListLatestPerAuthor(c.Request.Context(), page, limit)
	if err != nil {
		respondFeedError(c, err)
		return
	}
	response.SuccessWithPage(c, result.Posts, shared.ToPagination(result.Pagination))
}

// GetPostBySlug 根据 slug 获取已发布文章
func (h *Handler) GetPostBySlug(c *gin.Context) {
	post, err := h.PostService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		respondPostDetailError(c, err)
		return
	}
	response.Success(c, post)
}
