package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"linetask/domain/models"
)

// ErrVersionConflict คือ optimistic concurrency ชน (version ไม่ตรงตอน save)
var ErrVersionConflict = errors.New("task version conflict")

// ErrNotFound: repositories translate their driver's not-found into this.
var ErrNotFound = errors.New("record not found")

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, offset, limit int) ([]*models.Task, error)
	Count(ctx context.Context) (int64, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]*models.Task, error)
	CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
	ListByStatuses(ctx context.Context, statuses []models.Status, offset, limit int) ([]*models.Task, error)

	// ListDueBefore returns tasks in the given statuses whose due time passed.
	ListDueBefore(ctx context.Context, t time.Time, statuses []models.Status) ([]*models.Task, error)

	// ExistsForTemplateBetween reports whether the template already spawned a
	// task due inside [from, to) - the recurring per-window idempotency check.
	ExistsForTemplateBetween(ctx context.Context, templateID uuid.UUID, from, to time.Time) (bool, error)

	// SaveWorkflow persists status/workflow/due/timestamps with a
	// compare-and-swap on Version; returns ErrVersionConflict when the row
	// moved underneath the caller.
	SaveWorkflow(ctx context.Context, task *models.Task) error
}
