package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"linetask/domain/models"
	"linetask/domain/ports"
	"linetask/domain/repositories"
	"linetask/domain/services"
	"linetask/pkg/logger"
)

// MaxFileSize คือขนาดไฟล์แนบสูงสุด (25MB)
const MaxFileSize = 25 * 1024 * 1024

type fileServiceImpl struct {
	fileRepo repositories.FileRepository
	taskRepo repositories.TaskRepository
	storage  ports.StoragePort
}

func NewFileService(
	fileRepo repositories.FileRepository,
	taskRepo repositories.TaskRepository,
	storage ports.StoragePort,
) services.FileService {
	return &fileServiceImpl{
		fileRepo: fileRepo,
		taskRepo: taskRepo,
		storage:  storage,
	}
}

// storageKey: attachments/<taskID>/<fileID>-<slugged-name>.<ext>
// slug กันชื่อไฟล์ภาษาไทย/อักขระพิเศษพัง storage key
func storageKey(taskID, fileID uuid.UUID, fileName string) string {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	slugged := slug.Make(base)
	if slugged == "" {
		slugged = "file"
	}
	return fmt.Sprintf("attachments/%s/%s-%s%s", taskID, fileID, slugged, strings.ToLower(ext))
}

func (s *fileServiceImpl) UploadToTask(ctx context.Context, taskID uuid.UUID, uploadedBy *uuid.UUID, tag models.FileTag, fileName, contentType string, size int64, content io.Reader) (*models.File, error) {
	if !tag.Valid() {
		return nil, NewValidationError("tag", "must be initial or submission")
	}
	if size > MaxFileSize {
		return nil, NewValidationError("file", "exceeds 25MB limit")
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFound("task", taskID.String())
		}
		return nil, err
	}
	if task.Status.Terminal() {
		return nil, NewConflict("task is already " + string(task.Status))
	}

	fileID := uuid.New()
	key := storageKey(taskID, fileID, fileName)

	url, err := s.storage.UploadFile(content, key, contentType)
	if err != nil {
		return nil, NewDependencyError("upload file", err)
	}

	file := &models.File{
		ID:         fileID,
		FileName:   fileName,
		FileSize:   size,
		MimeType:   contentType,
		StorageKey: key,
		URL:        url,
		UploadedBy: uploadedBy,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		// row เขียนไม่ได้ อย่าทิ้ง object ค้างใน storage
		if derr := s.storage.DeleteFile(key); derr != nil {
			logger.WarnContext(ctx, "failed to clean up orphan object",
				"key", key, "error", derr)
		}
		return nil, err
	}
	if err := s.fileRepo.Attach(ctx, taskID, fileID, tag); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "file uploaded",
		"task_id", taskID, "file_id", fileID, "tag", tag, "size", size)
	return file, nil
}

func (s *fileServiceImpl) Download(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, *models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, NewNotFound("file", fileID.String())
		}
		return nil, nil, err
	}

	content, _, err := s.storage.GetFileContent(file.StorageKey)
	if err != nil {
		return nil, nil, NewDependencyError("download file", err)
	}
	return content, file, nil
}

func (s *fileServiceImpl) ListTaskFiles(ctx context.Context, taskID uuid.UUID) ([]*models.TaskFile, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFound("task", taskID.String())
		}
		return nil, err
	}
	return s.fileRepo.ListByTask(ctx, taskID)
}

func (s *fileServiceImpl) DeleteTaskAttachments(ctx context.Context, taskID uuid.UUID) []error {
	var errs []error

	taskFiles, err := s.fileRepo.ListByTask(ctx, taskID)
	if err != nil {
		return []error{err}
	}

	for _, tf := range taskFiles {
		if err := s.storage.DeleteFile(tf.File.StorageKey); err != nil {
			errs = append(errs, fmt.Errorf("delete object %s: %w", tf.File.StorageKey, err))
		}
		if err := s.fileRepo.Delete(ctx, tf.FileID); err != nil {
			errs = append(errs, fmt.Errorf("delete file row %s: %w", tf.FileID, err))
		}
	}
	if err := s.fileRepo.DetachAllForTask(ctx, taskID); err != nil {
		errs = append(errs, err)
	}

	// กวาด prefix เผื่อ object ที่หลุดจาก row
	if err := s.storage.DeleteFolder(fmt.Sprintf("attachments/%s/", taskID)); err != nil {
		logger.WarnContext(ctx, "failed to sweep attachment prefix",
			"task_id", taskID, "error", err)
	}

	if len(errs) > 0 {
		logger.WarnContext(ctx, "attachment purge finished with errors",
			"task_id", taskID, "errors", len(errs))
	}
	return errs
}
