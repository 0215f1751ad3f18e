package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linetask/domain/models"
	"linetask/domain/repositories"
)

type GroupRepositoryImpl struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) repositories.GroupRepository {
	return &GroupRepositoryImpl{db: db}
}

func (r *GroupRepositoryImpl) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *GroupRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &group, nil
}

func (r *GroupRepositoryImpl) GetByLineGroupID(ctx context.Context, lineGroupID string) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).Where("line_group_id = ?", lineGroupID).First(&group).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &group, nil
}

func (r *GroupRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.WithContext(ctx).Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&groups).Error
	return groups, err
}

func (r *GroupRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Group{}).Count(&count).Error
	return count, err
}

func (r *GroupRepositoryImpl) Update(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}
