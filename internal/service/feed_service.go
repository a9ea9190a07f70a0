package service

import (
	"context"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
)

// FeedPageCache 信息流分页缓存
type FeedPageCache interface {
	Load(ctx context.Context, kind string, page, limit int, dest interface{}) (int64, bool, error)
	Store(ctx context.Context, kind string, page, limit int, version int64, value interface{}) error
}

// FeedPage 信息流分页结果
type FeedPage struct {
	Posts      []models.Post `json:"posts"`
	Pagination Pagination    `json:"pagination"`
}

// FeedService 公开信息流
type FeedService struct {
	repo     repository.PostRepository
	cache    FeedPageCache
	maxLimit int
}

// NewFeedService 创建信息流服务；maxLimit 为 0 表示不限制单页数量
func NewFeedService(repo repository.PostRepository, cache FeedPageCache, maxLimit int) *FeedService {
	return &FeedService{repo: repo, cache: cache, maxLimit: maxLimit}
}

// ListPublished 全部已发布文章，按 created_at 倒序分页
func (s *FeedService) ListPublished(ctx context.Context, page, limit int) (*FeedPage, error) {
	return s.list(ctx, constants.FeedKindPublished, page, limit, s.repo.ListPublished)
}

// ListLatestPerAuthor 每位作者最新一篇已发布文章，total 为作者数
func (s *FeedService) ListLatestPerAuthor(ctx context.Context, page, limit int) (*FeedPage, error) {
	return s.list(ctx, constants.FeedKindLatestPerAuthor, page, limit, s.repo.ListLatestPerAuthor)
}

func (s *FeedService) list(ctx context.Context, kind string, page, limit int, query func(page, pageSize int) ([]models.Post, int64, error)) (*FeedPage, error) {
	if _, err := Paginate(page, limit, 0); err != nil {
		return nil, err
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		return nil, ErrLimitTooLarge
	}

	var version int64
	if s.cache != nil {
		var cached FeedPage
		v, hit, err := s.cache.Load(ctx, kind, page, limit, &cached)
		if err != nil {
			logger.Warnw("feed_cache_load_failed", "kind", kind, "error", err)
		} else if hit {
			return &cached, nil
		}
		version = v
	}

	posts, total, err := query(page, limit)
	if err != nil {
		logger.Errorw("feed_query_failed", "kind", kind, "page", page, "limit", limit, "error", err)
		return nil, wrapFetchError(err)
	}
	pagination, err := Paginate(page, limit, total)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	result := &FeedPage{Posts: posts, Pagination: pagination}

	if s.cache != nil {
		if err := s.cache.Store(ctx, kind, page, limit, version, result); err != nil {
			logger.Warnw("feed_cache_store_failed", "kind", kind, "error", err)
		}
	}
	return result, nil
}
