package service

import (
	"context"
	"time"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/repository"

	"gorm.io/gorm"
)

const (
	reconcileReasonPublish   = "publish"
	reconcileReasonDuplicate = "duplicate_published"
	reconcileReasonAudit     = "audit"
)

// ReconcileEnqueuer 投递发布状态自愈任务
type ReconcileEnqueuer interface {
	EnqueuePublicationReconcile(payload queue.PublicationReconcilePayload, delay time.Duration) error
}

// PublicationOptions 发布流程配置
type PublicationOptions struct {
	UseTransaction bool
	ReconcileDelay time.Duration
}

// PublicationService 维护“每位作者至多一篇已发布文章”
type PublicationService struct {
	repo    repository.PostRepository
	posts   *PostService
	queue   ReconcileEnqueuer
	options PublicationOptions
	now     func() time.Time
}

// NewPublicationService 创建发布协调服务
func NewPublicationService(repo repository.PostRepository, posts *PostService, queueClient ReconcileEnqueuer, options PublicationOptions) *PublicationService {
	return &PublicationService{
		repo:    repo,
		posts:   posts,
		queue:   queueClient,
		options: options,
		now:     time.Now,
	}
}

// PublishNew 先归档作者已发布文章，再创建新的已发布文章
func (s *PublicationService) PublishNew(ctx context.Context, authorID, title string, content *string) (*models.Post, error) {
	authorID = normalizeAuthorID(authorID)
	input := CreatePostInput{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
		Status:   constants.PostStatusPublished,
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var post *models.Post
	if s.options.UseTransaction {
		err := s.repo.Transaction(func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			if _, err := s.archivePublished(txRepo, authorID, ""); err != nil {
				return err
			}
			created, err := s.posts.create(txRepo, input)
			if err != nil {
				return err
			}
			post = created
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		archived, err := s.archivePublished(s.repo, authorID, "")
		if err != nil {
			return nil, err
		}
		created, err := s.posts.create(s.repo, input)
		if err != nil {
			if len(archived) > 0 {
				logger.Warnw("publication_zero_published_window",
					"author_id", authorID,
					"archived_ids", archived,
					"error", err,
				)
				s.enqueueReconcile(authorID, reconcileReasonPublish)
			}
			s.posts.invalidateFeed(ctx)
			return nil, err
		}
		post = created
	}

	logger.Infow("publication_publish_new_done", "author_id", authorID, "post_id", post.ID)
	s.posts.invalidateFeed(ctx)
	s.enqueueReconcile(authorID, reconcileReasonPublish)
	return post, nil
}

// PublishExisting 发布作者已保存的草稿，同样先归档其他已发布文章
func (s *PublicationService) PublishExisting(ctx context.Context, authorID, postID string) (*models.Post, error) {
	authorID = normalizeAuthorID(authorID)
	if authorID == "" {
		return nil, ErrAuthorRequired
	}

	var post *models.Post
	run := func(repo repository.PostRepository) error {
		current, err := s.posts.getOwned(repo, authorID, postID)
		if err != nil {
			return err
		}
		switch current.Status {
		case constants.PostStatusPublished:
			return ErrPostAlreadyPublished
		case constants.PostStatusArchived:
			return ErrPostArchived
		}
		if _, err := s.archivePublished(repo, authorID, current.ID); err != nil {
			return err
		}
		now := s.now()
		current.ApplyStatus(constants.PostStatusPublished, now)
		current.UpdatedAt = now
		fields := current.PublishStateColumns()
		fields["updated_at"] = now
		if err := mapWriteError(repo.UpdateFields(current.ID, fields)); err != nil {
			return err
		}
		post = current
		return nil
	}

	var err error
	if s.options.UseTransaction {
		err = s.repo.Transaction(func(tx *gorm.DB) error {
			return run(s.repo.WithTx(tx))
		})
	} else {
		err = run(s.repo)
	}
	if err != nil {
		return nil, err
	}

	logger.Infow("publication_publish_existing_done", "author_id", authorID, "post_id", post.ID)
	s.posts.invalidateFeed(ctx)
	s.enqueueReconcile(authorID, reconcileReasonPublish)
	return post, nil
}

// GetByAuthorAndStatus 查询作者指定状态的最新文章，不存在返回 nil
// 发现多篇已发布文章时返回最新一篇，并投递自愈任务
func (s *PublicationService) GetByAuthorAndStatus(authorID, status string) (*models.Post, error) {
	authorID = normalizeAuthorID(authorID)
	if authorID == "" {
		return nil, ErrAuthorRequired
	}
	if !constants.IsValidPostStatus(status) {
		return nil, invalidStatusError()
	}
	posts, err := s.repo.ListByAuthorAndStatus(authorID, status)
	if err != nil {
		return nil, wrapFetchError(err)
	}
	if len(posts) == 0 {
		return nil, nil
	}
	if status == constants.PostStatusPublished && len(posts) > 1 {
		logger.Warnw("publication_multiple_published_detected",
			"author_id", authorID,
			"count", len(posts),
		)
		s.enqueueReconcile(authorID, reconcileReasonDuplicate)
	}
	return &posts[0], nil
}

// Reconcile 保留作者最新一篇已发布文章，归档其余
func (s *PublicationService) Reconcile(ctx context.Context, authorID string) (int, error) {
	authorID = normalizeAuthorID(authorID)
	if authorID == "" {
		return 0, ErrAuthorRequired
	}

	var archived []string
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		published, err := txRepo.ListByAuthorAndStatus(authorID, constants.PostStatusPublished)
		if err != nil {
			return wrapFetchError(err)
		}
		if len(published) <= 1 {
			return nil
		}
		archived, err = s.archivePublished(txRepo, authorID, published[0].ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	if len(archived) > 0 {
		logger.Warnw("publication_reconciled",
			"author_id", authorID,
			"archived_ids", archived,
		)
		s.posts.invalidateFeed(ctx)
	}
	return len(archived), nil
}

// AuditDuplicates 巡检同时存在多篇已发布文章的作者并逐个自愈
func (s *PublicationService) AuditDuplicates(ctx context.Context, limit int) (int, error) {
	authorIDs, err := s.repo.ListAuthorsWithMultiplePublished(limit)
	if err != nil {
		return 0, wrapFetchError(err)
	}
	healed := 0
	for _, authorID := range authorIDs {
		if ctx.Err() != nil {
			return healed, ctx.Err()
		}
		count, err := s.Reconcile(ctx, authorID)
		if err != nil {
			logger.Warnw("publication_audit_reconcile_failed",
				"author_id", authorID,
				"reason", reconcileReasonAudit,
				"error", err,
			)
			continue
		}
		if count > 0 {
			healed++
		}
	}
	return healed, nil
}

func (s *PublicationService) archivePublished(repo repository.PostRepository, authorID, keepID string) ([]string, error) {
	archived, err := repo.ArchivePublishedByAuthor(authorID, keepID, s.now())
	if err != nil {
		logger.Errorw("publication_archive_failed", "author_id", authorID, "error", err)
		return nil, mapWriteError(err)
	}
	if len(archived) > 0 {
		logger.Infow("publication_archive_done", "author_id", authorID, "archived_ids", archived)
	}
	return archived, nil
}

func (s *PublicationService) enqueueReconcile(authorID, reason string) {
	if s.queue == nil {
		return
	}
	payload := queue.PublicationReconcilePayload{AuthorID: authorID, Reason: reason}
	if err := s.queue.EnqueuePublicationReconcile(payload, s.options.ReconcileDelay); err != nil {
		logger.Warnw("publication_reconcile_enqueue_failed",
			"author_id", authorID,
			"reason", reason,
			"error", err,
		)
	}
}
