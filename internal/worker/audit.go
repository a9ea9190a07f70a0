package worker

import (
	"context"
	"errors"
	"time"

	"github.com/inkpost/internal/logger"
)

const auditBatchSize = 200

// DuplicateAuditor 扫描并修复存在多篇已发布文章的作者
type DuplicateAuditor interface {
	AuditDuplicates(ctx context.Context, limit int) (int, error)
}

// AuditService 周期性发布状态巡检，不依赖队列
type AuditService struct {
	name     string
	auditor  DuplicateAuditor
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewAuditService 创建巡检服务
func NewAuditService(auditor DuplicateAuditor, interval time.Duration) (*AuditService, error) {
	if auditor == nil {
		return nil, errors.New("auditor is nil")
	}
	if interval <= 0 {
		return nil, errors.New("audit interval must be positive")
	}
	return &AuditService{
		name:     "publication_audit",
		auditor:  auditor,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Name 服务名称
func (s *AuditService) Name() string {
	if s == nil || s.name == "" {
		return "publication_audit"
	}
	return s.name
}

// Start 立即巡检一次，之后按间隔执行，直到 ctx 结束或 Stop
func (s *AuditService) Start(ctx context.Context) error {
	if s == nil || s.auditor == nil {
		return errors.New("audit service not initialized")
	}
	defer close(s.doneCh)
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop 停止巡检并等待当前轮次结束
func (s *AuditService) Stop(ctx context.Context) error {
	if s == nil || s.stopCh == nil {
		return nil
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AuditService) runOnce(ctx context.Context) {
	healed, err := s.auditor.AuditDuplicates(ctx, auditBatchSize)
	if err != nil {
		logger.Warnw("worker_publication_audit_failed", "error", err)
		return
	}
	if healed > 0 {
		logger.Infow("worker_publication_audit_healed", "authors", healed)
	}
}
