package queue

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/inkpost/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPublicationReconcile 作者发布状态自愈任务
	TaskPublicationReconcile = constants.TaskPublicationReconcile
)

// ErrInvalidReconcilePayload 自愈任务载荷缺少作者
var ErrInvalidReconcilePayload = errors.New("publication reconcile payload missing author_id")

// PublicationReconcilePayload 自愈任务载荷
type PublicationReconcilePayload struct {
	AuthorID string `json:"author_id"`
	Reason   string `json:"reason"`
}

// NewPublicationReconcileTask 创建自愈任务
func NewPublicationReconcileTask(payload PublicationReconcilePayload) (*asynq.Task, error) {
	payload.AuthorID = strings.TrimSpace(payload.AuthorID)
	if payload.AuthorID == "" {
		return nil, ErrInvalidReconcilePayload
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPublicationReconcile, body), nil
}

// ParsePublicationReconcilePayload 解析自愈任务载荷
func ParsePublicationReconcilePayload(task *asynq.Task) (PublicationReconcilePayload, error) {
	var payload PublicationReconcilePayload
	if task == nil {
		return payload, ErrInvalidReconcilePayload
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	payload.AuthorID = strings.TrimSpace(payload.AuthorID)
	if payload.AuthorID == "" {
		return payload, ErrInvalidReconcilePayload
	}
	return payload, nil
}
