package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPublicationReconcile, c.handlePublicationReconcile)
}

func (c *Consumer) handlePublicationReconcile(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_publication_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePublicationReconcilePayload(task)
	if err != nil {
		logger.Warnw("worker_publication_reconcile_invalid_payload", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if c.PublicationService == nil {
		logger.Warnw("worker_publication_reconcile_skip_service_nil", "author_id", payload.AuthorID)
		return nil
	}
	archived, err := c.PublicationService.Reconcile(ctx, payload.AuthorID)
	if err != nil {
		if errors.Is(err, service.ErrAuthorRequired) {
			logger.Debugw("worker_publication_reconcile_skip_author_empty")
			return nil
		}
		logger.Warnw("worker_publication_reconcile_failed",
			"author_id", payload.AuthorID,
			"reason", payload.Reason,
			"error", err,
		)
		return err
	}
	if archived > 0 {
		logger.Infow("worker_publication_reconcile_archived",
			"author_id", payload.AuthorID,
			"reason", payload.Reason,
			"archived", archived,
		)
	}
	return nil
}
