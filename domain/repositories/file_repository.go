package repositories

import (
	"context"

	"github.com/google/uuid"

	"linetask/domain/models"
)

type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.File, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Attach links a file to a task with an initial/submission tag.
	Attach(ctx context.Context, taskID, fileID uuid.UUID, tag models.FileTag) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskFile, error)
	DetachAllForTask(ctx context.Context, taskID uuid.UUID) error
}
