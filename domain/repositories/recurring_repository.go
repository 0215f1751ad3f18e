package repositories

import (
	"context"

	"github.com/google/uuid"

	"linetask/domain/models"
)

type RecurringRepository interface {
	Create(ctx context.Context, template *models.RecurringTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringTask, error)
	List(ctx context.Context, offset, limit int) ([]*models.RecurringTask, error)
	Count(ctx context.Context) (int64, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.RecurringTask, error)
	ListActive(ctx context.Context) ([]*models.RecurringTask, error)
	Update(ctx context.Context, template *models.RecurringTask) error
	Delete(ctx context.Context, id uuid.UUID) error
}
