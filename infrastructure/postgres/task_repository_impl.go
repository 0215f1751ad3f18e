package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linetask/domain/models"
	"linetask/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Preload("Assignees").Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("task_id = ?", id).Delete(&models.TaskFile{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Select("Assignees").Where("id = ?", id).Delete(&models.Task{ID: id}).Error
}

func (r *TaskRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).Preload("Assignees").
		Order("due_time ASC").Offset(offset).Limit(limit).Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Count(&count).Error
	return count, err
}

func (r *TaskRepositoryImpl) ListByGroup(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).Preload("Assignees").
		Where("group_id = ?", groupID).
		Order("due_time ASC").Offset(offset).Limit(limit).Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

func (r *TaskRepositoryImpl) ListByStatuses(ctx context.Context, statuses []models.Status, offset, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).Preload("Assignees").
		Where("status IN ?", statuses).
		Order("due_time ASC").Offset(offset).Limit(limit).Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) ListDueBefore(ctx context.Context, t time.Time, statuses []models.Status) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).Preload("Assignees").
		Where("status IN ? AND due_time < ?", statuses, t).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) ExistsForTemplateBetween(ctx context.Context, templateID uuid.UUID, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("recurring_task_id = ? AND due_time >= ? AND due_time < ?", templateID, from, to).
		Count(&count).Error
	return count > 0, err
}

// SaveWorkflow: compare-and-swap บน version - ชนแล้วคืน ErrVersionConflict
// ให้ caller reload แล้วลองใหม่
func (r *TaskRepositoryImpl) SaveWorkflow(ctx context.Context, task *models.Task) error {
	prev := task.Version
	task.Version++
	res := r.db.WithContext(ctx).Model(task).
		Where("id = ? AND version = ?", task.ID, prev).
		Select("Status", "Workflow", "DueTime", "SubmittedAt", "CompletedAt", "Version").
		Updates(task)
	if res.Error != nil {
		task.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		task.Version = prev
		return repositories.ErrVersionConflict
	}
	return nil
}
