package serviceimpl

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"linetask/domain/models"
	"linetask/domain/repositories"
	"linetask/domain/services"
	"linetask/pkg/logger"
)

type groupServiceImpl struct {
	groupRepo repositories.GroupRepository
}

func NewGroupService(groupRepo repositories.GroupRepository) services.GroupService {
	return &groupServiceImpl{groupRepo: groupRepo}
}

// EnsureGroup: join event อาจมาซ้ำ (redelivery) - upsert และ reactivate
func (s *groupServiceImpl) EnsureGroup(ctx context.Context, lineGroupID string) (*models.Group, error) {
	if lineGroupID == "" {
		return nil, NewValidationError("groupId", "must not be empty")
	}

	group, err := s.groupRepo.GetByLineGroupID(ctx, lineGroupID)
	if err == nil {
		if !group.IsActive {
			group.IsActive = true
			if err := s.groupRepo.Update(ctx, group); err != nil {
				return nil, err
			}
			logger.InfoContext(ctx, "group reactivated", "group_id", group.ID)
		}
		return group, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	group = &models.Group{
		ID:          uuid.New(),
		LineGroupID: lineGroupID,
		IsActive:    true,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "group registered", "group_id", group.ID)
	return group, nil
}

func (s *groupServiceImpl) Deactivate(ctx context.Context, lineGroupID string) error {
	group, err := s.groupRepo.GetByLineGroupID(ctx, lineGroupID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil // leave event ของ group ที่ไม่รู้จัก ข้ามได้
		}
		return err
	}
	if !group.IsActive {
		return nil
	}
	group.IsActive = false
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return err
	}
	logger.InfoContext(ctx, "group deactivated", "group_id", group.ID)
	return nil
}

func (s *groupServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFound("group", id.String())
		}
		return nil, err
	}
	return group, nil
}

func (s *groupServiceImpl) GetByLineGroupID(ctx context.Context, lineGroupID string) (*models.Group, error) {
	group, err := s.groupRepo.GetByLineGroupID(ctx, lineGroupID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFound("group", lineGroupID)
		}
		return nil, err
	}
	return group, nil
}

func (s *groupServiceImpl) List(ctx context.Context, offset, limit int) ([]*models.Group, int64, error) {
	groups, err := s.groupRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.groupRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}
