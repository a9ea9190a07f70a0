package author

import (
	"strings"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePostRequest 创建文章请求，作者取自令牌
type CreatePostRequest struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
	Status  string  `json:"status"` // 省略时为 draft
}

// CreatePost 创建文章；status 为 published 时走发布流程，先归档旧的已发布文章
func (h *Handler) CreatePost(c *gin.Context) {
	authorID, ok := shared.GetAuthorID(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, shared.MsgBadRequest, err)
		return
	}

	var (
		post *models.Post
		err  error
	)
	if strings.TrimSpace(req.Status) == constants.PostStatusPublished {
		post, err = h.PublicationService.PublishNew(c.Request.Context(), authorID, req.Title, req.Content)
	} else {
		post, err = h.PostService.Create(c.Request.Context(), service.CreatePostInput{
			AuthorID: authorID,
			Title:    req.Title,
			Content:  req.Content,
			Status:   req.Status,
		})
	}
	if err != nil {
		respondPostCreateError(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost 部分更新文章，未出现的字段保持不变
func (h *Handler) UpdatePost(c *gin.Context) {
	authorID, ok := shared.GetAuthorID(c)
	if !ok {
		return
	}
	var req service.UpdatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, shared.MsgBadRequest, err)
		return
	}

	post, err := h.PostService.Update(c.Request.Context(), authorID, c.Param("id"), req)
	if err != nil {
		respondPostUpdateError(c, err)
		return
	}
	response.Success(c, post)
}

// PublishPost 发布已有草稿
func (h *Handler) PublishPost(c *gin.Context) {
	authorID, ok := shared.GetAuthorID(c)
	if !ok {
		return
	}
	post, err := h.PublicationService.PublishExisting(c.Request.Context(), authorID, c.Param("id"))
	if err != nil {
		respondPostPublishError(c, err)
		return
	}
	response.Success(c, post)
}

// GetPosts 作者全部文章（含草稿与归档）
func (h *Handler) GetPosts(c *gin.Context) {
	authorID, ok := shared.GetAuthorID(c)
	if !ok {
		return
	}
	page, limit, err := shared.ParsePagination(c, h.defaultLimit())
	if err != nil {
		respondPostFetchError(c, err)
		return
	}

	posts, pagination, err := h.PostService.ListByAuthor(authorID, c.Query("status"), page, limit)
	if err != nil {
		respondPostFetchError(c, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	response.SuccessWithPage(c, posts, shared.ToPagination(pagination))
}

// GetCurrentPost 作者指定状态下最新的一篇文章，默认查询已发布；不存在时 data 为 null
func (h *Handler) GetCurrentPost(c *gin.Context) {
	authorID, ok := shared.GetAuthorID(c)
	if !ok {
		return
	}
	status := strings.TrimSpace(c.DefaultQuery("status", constants.PostStatusPublished))

	post, err := h.PublicationService.GetByAuthorAndStatus(authorID, status)
	if err != nil {
		respondPostFetchError(c, err)
		return
	}
	response.Success(c, post)
}

// GetPost 获取作者自己的文章详情
func (h *Handler) GetPost(c *gin.Context) {
	authorID, ok := shared.GetAuthorID(c)
	if !ok {
		return
	}
	post, err := h.PostService.GetByID(authorID, c.Param("id"))
	if err != nil {
		respondPostFetchError(c, err)
		return
	}
	response.Success(c, post)
}
