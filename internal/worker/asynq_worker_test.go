package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{Publication: config.PublicationConfig{UseTransaction: true}}
	return NewConsumer(provider.NewContainerWithDB(cfg, db, nil)), db
}

func seedPublishedRow(t *testing.T, db *gorm.DB, authorID, slug string, createdAt time.Time) {
	t.Helper()
	post := &models.Post{
		AuthorID:  authorID,
		Title:     slug,
		Content:   "body",
		Slug:      slug,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	post.ApplyStatus(constants.PostStatusPublished, createdAt)
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("seed post failed: %v", err)
	}
}

func TestHandlePublicationReconcile(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	seedPublishedRow(t, db, "author-1", "older", base)
	seedPublishedRow(t, db, "author-1", "newer", base.Add(time.Minute))

	task, err := queue.NewPublicationReconcileTask(queue.PublicationReconcilePayload{AuthorID: "author-1", Reason: "test"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handlePublicationReconcile(context.Background(), task); err != nil {
		t.Fatalf("reconcile handler failed: %v", err)
	}

	var published []models.Post
	if err := db.Where("author_id = ? AND status = ?", "author-1", constants.PostStatusPublished).Find(&published).Error; err != nil {
		t.Fatalf("query published failed: %v", err)
	}
	if len(published) != 1 || published[0].Slug != "newer" {
		t.Fatalf("only the newest post should stay published, got %d", len(published))
	}
}

func TestHandlePublicationReconcileInvalidPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	err := consumer.handlePublicationReconcile(context.Background(), asynq.NewTask(queue.TaskPublicationReconcile, []byte(`{"author_id":""}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("invalid payload should skip retry, got %v", err)
	}
	if err := (*Consumer)(nil).handlePublicationReconcile(context.Background(), nil); err != nil {
		t.Fatalf("nil consumer should be a no-op, got %v", err)
	}
}

type countingAuditor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (a *countingAuditor) AuditDuplicates(ctx context.Context, limit int) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return 0, a.err
}

func (a *countingAuditor) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func TestAuditServiceRunsUntilStopped(t *testing.T) {
	auditor := &countingAuditor{err: errors.New("transient")}
	svc, err := NewAuditService(auditor, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("new audit service failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for auditor.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if auditor.count() < 2 {
		t.Fatalf("audit should run repeatedly, got %d", auditor.count())
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Stop(stopCtx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("start should exit cleanly, got %v", err)
	}
}

func TestNewAuditServiceValidates(t *testing.T) {
	if _, err := NewAuditService(nil, time.Second); err == nil {
		t.Fatalf("nil auditor should be rejected")
	}
	if _, err := NewAuditService(&countingAuditor{}, 0); err == nil {
		t.Fatalf("zero interval should be rejected")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{}); err == nil {
		t.Fatalf("disabled queue should not build a worker")
	}
}
