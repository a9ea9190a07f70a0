package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/service"
)

func main() {
	var (
		authors      int
		postsPerUser int
	)
	flag.IntVar(&authors, "authors", 3, "number of demo authors")
	flag.IntVar(&postsPerUser, "posts", 3, "published posts per author, older ones end up archived")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	container := provider.NewContainer(cfg)
	defer container.Close()
	ctx := context.Background()

	for i := 1; i <= authors; i++ {
		authorID := fmt.Sprintf("demo-author-%d", i)

		// 发布流程会归档该作者之前的已发布文章
		for j := 1; j <= postsPerUser; j++ {
			content := fmt.Sprintf("<p>Demo post %d by %s. This body is long enough to show how excerpts are cut on a word boundary once the text grows past the excerpt limit, with the markup stripped first.</p>", j, authorID)
			post, err := container.PublicationService.PublishNew(ctx, authorID, fmt.Sprintf("Demo post %d from author %d", j, i), &content)
			if err != nil {
				stdLog.Printf("Failed to publish post for %s: %v", authorID, err)
				continue
			}
			stdLog.Printf("Published: %s (%s)", post.Slug, authorID)
		}

		draftContent := "Work in progress."
		draft, err := container.PostService.Create(ctx, service.CreatePostInput{
			AuthorID: authorID,
			Title:    fmt.Sprintf("Draft notes from author %d", i),
			Content:  &draftContent,
		})
		if err != nil {
			stdLog.Printf("Failed to create draft for %s: %v", authorID, err)
		} else {
			stdLog.Printf("Draft: %s (%s)", draft.Slug, authorID)
		}

		token, expiresAt, err := container.AuthorTokenService.Generate(authorID)
		if err != nil {
			stdLog.Printf("Failed to issue token for %s: %v", authorID, err)
			continue
		}
		stdLog.Printf("Token for %s (expires %s): %s", authorID, expiresAt.Format("2006-01-02 15:04"), token)
	}

	stdLog.Println("Seed completed")
}
