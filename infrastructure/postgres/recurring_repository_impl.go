package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linetask/domain/models"
	"linetask/domain/repositories"
)

type RecurringRepositoryImpl struct {
	db *gorm.DB
}

func NewRecurringRepository(db *gorm.DB) repositories.RecurringRepository {
	return &RecurringRepositoryImpl{db: db}
}

func (r *RecurringRepositoryImpl) Create(ctx context.Context, template *models.RecurringTask) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *RecurringRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringTask, error) {
	var template models.RecurringTask
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &template, nil
}

func (r *RecurringRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*models.RecurringTask, error) {
	var templates []*models.RecurringTask
	err := r.db.WithContext(ctx).Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&templates).Error
	return templates, err
}

func (r *RecurringRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RecurringTask{}).Count(&count).Error
	return count, err
}

func (r *RecurringRepositoryImpl) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.RecurringTask, error) {
	var templates []*models.RecurringTask
	err := r.db.WithContext(ctx).Where("group_id = ?", groupID).
		Order("created_at DESC").Find(&templates).Error
	return templates, err
}

func (r *RecurringRepositoryImpl) ListActive(ctx context.Context) ([]*models.RecurringTask, error) {
	var templates []*models.RecurringTask
	err := r.db.WithContext(ctx).Where("active = ?", true).Find(&templates).Error
	return templates, err
}

func (r *RecurringRepositoryImpl) Update(ctx context.Context, template *models.RecurringTask) error {
	return r.db.WithContext(ctx).Save(template).Error
}

func (r *RecurringRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.RecurringTask{}).Error
}
