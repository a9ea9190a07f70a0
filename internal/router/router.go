package router

import (
	"fmt"
	"strings"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	authorhandlers "github.com/inkpost/internal/http/handlers/author"
	publichandlers "github.com/inkpost/internal/http/handlers/public"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/作者分组）
	publicHandler := publichandlers.New(c)
	authorHandler := authorhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ink"
	}
	writeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:author_write", redisPrefix),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxRequests,
		Message:       "too many write requests, retry in %d seconds",
	}
	writeLimiter := RateLimitMiddleware(cache.Client(), writeRule, KeyByAuthor)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/:slug", publicHandler.GetPostBySlug)
			public.GET("/feed", publicHandler.GetFeed)
		}

		// 作者接口（需鉴权）
		author := apiV1.Group("/author")
		author.Use(AuthorJWTAuthMiddleware(c.AuthorTokenService))
		{
			author.GET("/posts", authorHandler.GetPosts)
			author.GET("/posts/current", authorHandler.GetCurrentPost)
			author.GET("/posts/:id", authorHandler.GetPost)
			author.POST("/posts", writeLimiter, authorHandler.CreatePost)
			author.PUT("/posts/:id", writeLimiter, authorHandler.UpdatePost)
			author.POST("/posts/:id/publish", writeLimiter, authorHandler.PublishPost)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
