package services

import (
	"context"

	"github.com/google/uuid"

	"linetask/domain/models"
)

// MaintenanceService รวม admin escape hatch สำหรับซ่อม status/workflow
// ที่ drift จาก failure ระหว่างทาง
type MaintenanceService interface {
	// BackfillSubmittedStatuses restores the invariant: any task with
	// submission evidence still sitting in pending/in_progress/overdue is
	// moved to submitted, with submittedAt backfilled from the oldest
	// submission.
	BackfillSubmittedStatuses(ctx context.Context) (int, error)

	// ForceSubmit synthesizes a submission on behalf of an assignee.
	ForceSubmit(ctx context.Context, taskID uuid.UUID, comment string) (*models.Task, error)

	// CompleteOverdueTasks bulk-completes everything in overdue.
	CompleteOverdueTasks(ctx context.Context) (int, error)
}
