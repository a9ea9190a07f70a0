package provider

import (
	"time"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	FeedCache   *cache.FeedCache

	// Repositories
	PostRepo repository.PostRepository

	// Services
	AuthorTokenService *service.AuthorTokenService
	SlugGenerator      *service.SlugGenerator
	PostService        *service.PostService
	PublicationService *service.PublicationService
	FeedService        *service.FeedService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 基于给定连接组装容器，不触碰 Redis 与队列的全局初始化
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		FeedCache:   cache.NewFeedCache(time.Duration(cfg.Feed.CacheTTLSeconds) * time.Second),
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.PostRepo = repository.NewPostRepository(db)
}

func (c *Container) initServices() {
	c.AuthorTokenService = service.NewAuthorTokenService(c.Config.AuthorJWT)
	c.SlugGenerator = service.NewSlugGenerator(nil, nil)
	c.PostService = service.NewPostService(c.PostRepo, c.SlugGenerator, c.FeedCache)
	c.PublicationService = service.NewPublicationService(c.PostRepo, c.PostService, c.QueueClient, service.PublicationOptions{
		UseTransaction: c.Config.Publication.UseTransaction,
		ReconcileDelay: time.Duration(c.Config.Publication.ReconcileDelaySeconds) * time.Second,
	})
	c.FeedService = service.NewFeedService(c.PostRepo, c.FeedCache, c.Config.Feed.MaxLimit)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
