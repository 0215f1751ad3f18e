package repositories

import (
	"context"

	"github.com/google/uuid"

	"linetask/domain/models"
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GetByLineGroupID(ctx context.Context, lineGroupID string) (*models.Group, error)
	List(ctx context.Context, offset, limit int) ([]*models.Group, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, group *models.Group) error
}
