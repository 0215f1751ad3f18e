package services

import (
	"context"

	"github.com/google/uuid"

	"linetask/domain/models"
)

type GroupService interface {
	// EnsureGroup upserts a group from a webhook join event.
	EnsureGroup(ctx context.Context, lineGroupID string) (*models.Group, error)

	// Deactivate marks the group inactive (bot kicked / leave event).
	Deactivate(ctx context.Context, lineGroupID string) error

	Get(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GetByLineGroupID(ctx context.Context, lineGroupID string) (*models.Group, error)
	List(ctx context.Context, offset, limit int) ([]*models.Group, int64, error)
}
