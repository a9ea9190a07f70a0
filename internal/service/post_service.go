package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// FeedInvalidator 写操作后使信息流缓存失效
type FeedInvalidator interface {
	Invalidate(ctx context.Context) error
}

// PostService 文章业务服务
type PostService struct {
	repo      repository.PostRepository
	slugs     *SlugGenerator
	feedCache FeedInvalidator
	now       func() time.Time
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, slugs *SlugGenerator, feedCache FeedInvalidator) *PostService {
	if slugs == nil {
		slugs = NewSlugGenerator(nil, nil)
	}
	return &PostService{
		repo:      repo,
		slugs:     slugs,
		feedCache: feedCache,
		now:       time.Now,
	}
}

// CreatePostInput 创建文章输入
type CreatePostInput struct {
	AuthorID string  `json:"author_id"`
	Title    string  `json:"title"`
	Content  *string `json:"content"`
	Status   string  `json:"status"`
}

// Validate 校验创建输入
func (in CreatePostInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.AuthorID, validation.Required.Error("author is required")),
		validation.Field(&in.Title, titleRules()...),
		validation.Field(&in.Content, validation.NotNil.Error("content is required")),
		validation.Field(&in.Status, statusRule()),
	)
	return toValidationError(err)
}

// UpdatePostInput 部分更新输入，未出现的字段保持不变
type UpdatePostInput struct {
	Title   models.Optional[string] `json:"title"`
	Content models.Optional[string] `json:"content"`
	Status  models.Optional[string] `json:"status"`
}

// Validate 校验更新输入，显式 null 视为非法
func (in UpdatePostInput) Validate() error {
	errs := validation.Errors{}
	if in.Title.Present() {
		if in.Title.Null {
			errs["title"] = errors.New("title cannot be null")
		} else {
			errs["title"] = validation.Validate(in.Title.Value, titleRules()...)
		}
	}
	if in.Content.Present() && in.Content.Null {
		errs["content"] = errors.New("content cannot be null")
	}
	if in.Status.Present() {
		if in.Status.Null {
			errs["status"] = errors.New("status cannot be null")
		} else {
			errs["status"] = validation.Validate(in.Status.Value, validation.Required.Error("status is required"), statusRule())
		}
	}
	return toValidationError(errs.Filter())
}

func titleRules() []validation.Rule {
	return []validation.Rule{
		validation.By(notBlank("title is required")),
		validation.RuneLength(1, constants.PostTitleMaxLength).Error("title must be at most 200 characters"),
	}
}

func statusRule() validation.Rule {
	return validation.In(
		constants.PostStatusDraft,
		constants.PostStatusPublished,
		constants.PostStatusArchived,
	).Error("status must be one of draft, published, archived")
}

func notBlank(message string) validation.RuleFunc {
	return func(value interface{}) error {
		text, _ := value.(string)
		if strings.TrimSpace(text) == "" {
			return errors.New(message)
		}
		return nil
	}
}

// Create 创建文章；published_at 只由状态推导
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	post, err := s.create(s.repo, input)
	if err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)
	return post, nil
}

func (s *PostService) create(repo repository.PostRepository, input CreatePostInput) (*models.Post, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = constants.PostStatusDraft
	}
	now := s.now()
	post := &models.Post{
		AuthorID:  normalizeAuthorID(input.AuthorID),
		Title:     input.Title,
		Content:   *input.Content,
		Excerpt:   GenerateExcerpt(*input.Content),
		Slug:      s.slugs.Generate(input.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	post.ApplyStatus(status, now)
	if !post.PublishStateConsistent() {
		return nil, ErrPublishStateInvariant
	}

	err := s.writeWithSlugRetry(repo, post, true, func(r repository.PostRepository) error {
		return r.Create(post)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("post_created", "post_id", post.ID, "author_id", post.AuthorID, "status", post.Status)
	return post, nil
}

// Update 部分更新文章；authorID 非空时校验归属
// 只写入本次请求触及的列，并发更新不同字段互不覆盖
func (s *PostService) Update(ctx context.Context, authorID, postID string, input UpdatePostInput) (*models.Post, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	post, err := s.getOwned(s.repo, authorID, postID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fields := map[string]interface{}{"updated_at": now}
	titleChanged := false
	if title, ok := input.Title.Get(); ok {
		post.Title = title
		post.Slug = s.slugs.Generate(title)
		fields["title"] = title
		titleChanged = true
	}
	if content, ok := input.Content.Get(); ok {
		post.Content = content
		post.Excerpt = GenerateExcerpt(content)
		fields["content"] = post.Content
		fields["excerpt"] = post.Excerpt
	}
	if status, ok := input.Status.Get(); ok {
		post.ApplyStatus(status, now)
		for column, value := range post.PublishStateColumns() {
			fields[column] = value
		}
	}
	post.UpdatedAt = now
	if !post.PublishStateConsistent() {
		return nil, ErrPublishStateInvariant
	}

	err = s.writeWithSlugRetry(s.repo, post, titleChanged, func(r repository.PostRepository) error {
		if titleChanged {
			fields["slug"] = post.Slug
		}
		return r.UpdateFields(post.ID, fields)
	})
	if err != nil {
		return nil, err
	}

	// 重新读取，返回合并了其他并发写入后的完整行
	stored, err := s.repo.GetByID(post.ID)
	if err != nil {
		return nil, wrapFetchError(err)
	}
	if stored == nil {
		return nil, ErrPostNotFound
	}
	logger.Infow("post_updated", "post_id", stored.ID, "author_id", stored.AuthorID, "status", stored.Status)
	s.invalidateFeed(ctx)
	return stored, nil
}

// GetByID 根据 ID 获取文章；authorID 非空时校验归属
func (s *PostService) GetByID(authorID, postID string) (*models.Post, error) {
	return s.getOwned(s.repo, authorID, postID)
}

// GetPublicBySlug 获取公开文章详情
func (s *PostService) GetPublicBySlug(slug string) (*models.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrPostNotFound
	}
	post, err := s.repo.GetBySlug(slug, true)
	if err != nil {
		return nil, wrapFetchError(err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListByAuthor 作者的文章（含归档），新的在前；status 为空表示全部状态
func (s *PostService) ListByAuthor(authorID, status string, page, limit int) ([]models.Post, Pagination, error) {
	authorID = normalizeAuthorID(authorID)
	if authorID == "" {
		return nil, Pagination{}, ErrAuthorRequired
	}
	status = strings.TrimSpace(status)
	if status != "" && !constants.IsValidPostStatus(status) {
		return nil, Pagination{}, invalidStatusError()
	}
	if _, err := Paginate(page, limit, 0); err != nil {
		return nil, Pagination{}, err
	}
	posts, total, err := s.repo.ListByAuthor(repository.PostListFilter{
		Page:     page,
		PageSize: limit,
		AuthorID: authorID,
		Status:   status,
	})
	if err != nil {
		return nil, Pagination{}, wrapFetchError(err)
	}
	pagination, err := Paginate(page, limit, total)
	if err != nil {
		return nil, Pagination{}, err
	}
	return posts, pagination, nil
}

// normalizeAuthorID 作者标识统一去除首尾空白后再存储或比较
func normalizeAuthorID(authorID string) string {
	return strings.TrimSpace(authorID)
}

func invalidStatusError() error {
	return &ValidationError{Fields: map[string]string{"status": "status must be one of draft, published, archived"}}
}

func (s *PostService) getOwned(repo repository.PostRepository, authorID, postID string) (*models.Post, error) {
	authorID = normalizeAuthorID(authorID)
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, ErrPostNotFound
	}
	post, err := repo.GetByID(postID)
	if err != nil {
		return nil, wrapFetchError(err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if authorID != "" && post.AuthorID != authorID {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// writeWithSlugRetry 唯一约束冲突时重新生成 slug 并重试一次
// 每次写入在独立保存点内执行，失败不会污染外层事务
func (s *PostService) writeWithSlugRetry(repo repository.PostRepository, post *models.Post, canRegenerate bool, write func(repository.PostRepository) error) error {
	attempt := func() error {
		return repo.Transaction(func(tx *gorm.DB) error {
			return write(repo.WithTx(tx))
		})
	}
	err := attempt()
	if errors.Is(err, repository.ErrDuplicateKey) && canRegenerate {
		previous := post.Slug
		post.Slug = s.slugs.Generate(post.Title)
		logger.Warnw("post_slug_conflict_retry", "post_id", post.ID, "slug", previous, "retry_slug", post.Slug)
		err = attempt()
	}
	return mapWriteError(err)
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicateKey):
		logger.Errorw("post_slug_conflict", "error", err)
		return ErrSlugConflict
	case errors.Is(err, repository.ErrCheckViolation):
		logger.Errorw("post_publish_state_rejected", "error", err)
		return ErrPublishStateInvariant
	default:
		return wrapFetchError(err)
	}
}

func (s *PostService) invalidateFeed(ctx context.Context) {
	if s.feedCache == nil {
		return
	}
	if err := s.feedCache.Invalidate(ctx); err != nil {
		logger.Warnw("feed_cache_invalidate_failed", "error", err)
	}
}
