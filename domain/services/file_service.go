package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"linetask/domain/models"
)

type FileService interface {
	// UploadToTask stores the content and attaches the file row to the task.
	UploadToTask(ctx context.Context, taskID uuid.UUID, uploadedBy *uuid.UUID, tag models.FileTag, fileName, contentType string, size int64, content io.Reader) (*models.File, error)

	// Download streams the stored content.
	Download(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, *models.File, error)

	ListTaskFiles(ctx context.Context, taskID uuid.UUID) ([]*models.TaskFile, error)

	// DeleteTaskAttachments removes storage objects and rows best-effort,
	// returning per-item failures.
	DeleteTaskAttachments(ctx context.Context, taskID uuid.UUID) []error
}
