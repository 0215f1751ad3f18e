package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"linetask/domain/dto"
	"linetask/domain/models"
)

// PurgeResult สรุปผล bulk purge แบบ best-effort
type PurgeResult struct {
	Deleted int
	Errors  []string
}

// WorkflowService คือ state machine ของ task:
// created → assigned → submitted → reviewed → completed
// ถูกเรียกจากทั้ง webhook และ dashboard API
type WorkflowService interface {
	CreateTask(ctx context.Context, creatorID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, offset, limit int) ([]*models.Task, int64, error)
	ListGroupTasks(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]*models.Task, int64, error)

	RecordSubmission(ctx context.Context, taskID uuid.UUID, submitter models.Submitter, fileIDs []uuid.UUID, comment string, links []string) (*models.Task, error)
	ApproveReview(ctx context.Context, taskID, approverID uuid.UUID) (*models.Task, error)
	RejectAndExtend(ctx context.Context, taskID, reviewerID uuid.UUID, comment string, extensionDays int) (*models.Task, error)
	CompleteTask(ctx context.Context, taskID, completerID uuid.UUID) (*models.Task, error)

	RequestExtension(ctx context.Context, taskID uuid.UUID, requester models.Submitter, reason string) (*models.Task, error)
	ApproveExtension(ctx context.Context, taskID, approverID uuid.UUID, newDueTime time.Time) (*models.Task, error)

	// SweepOverdue reclassifies pending/in_progress tasks past due as overdue.
	SweepOverdue(ctx context.Context) (int, error)

	// DeleteGroupTasks purges every task in a group with its attachments,
	// best-effort: per-item failures are collected, not fatal.
	DeleteGroupTasks(ctx context.Context, groupID uuid.UUID) (*PurgeResult, error)
}
