package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linetask/domain/models"
	"linetask/domain/repositories"
)

type FileRepositoryImpl struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) repositories.FileRepository {
	return &FileRepositoryImpl{db: db}
}

func (r *FileRepositoryImpl) Create(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &file, nil
}

func (r *FileRepositoryImpl) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.File, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var files []*models.File
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&files).Error
	return files, err
}

func (r *FileRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.File{}).Error
}

// Attach: แนบซ้ำ (task, file) เดิมเป็น no-op
func (r *FileRepositoryImpl) Attach(ctx context.Context, taskID, fileID uuid.UUID, tag models.FileTag) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TaskFile{
			TaskID: taskID,
			FileID: fileID,
			Tag:    tag,
		}).Error
}

func (r *FileRepositoryImpl) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.TaskFile, error) {
	var taskFiles []*models.TaskFile
	err := r.db.WithContext(ctx).Preload("File").
		Where("task_id = ?", taskID).
		Order("created_at ASC").Find(&taskFiles).Error
	return taskFiles, err
}

func (r *FileRepositoryImpl) DetachAllForTask(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&models.TaskFile{}).Error
}
