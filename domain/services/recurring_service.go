package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"linetask/domain/dto"
	"linetask/domain/models"
)

type RecurringService interface {
	Create(ctx context.Context, creatorID uuid.UUID, req *dto.CreateRecurringRequest) (*models.RecurringTask, error)
	Get(ctx context.Context, id uuid.UUID) (*models.RecurringTask, error)
	List(ctx context.Context, offset, limit int) ([]*models.RecurringTask, int64, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.RecurringTask, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateRecurringRequest) (*models.RecurringTask, error)
	Toggle(ctx context.Context, id uuid.UUID) (*models.RecurringTask, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateDue is the scheduled tick: at most one task per active template
	// per recurrence window, no matter how often it runs.
	GenerateDue(ctx context.Context, now time.Time) (*dto.GenerateRunResponse, error)
}
