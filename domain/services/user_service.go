package services

import (
	"context"

	"github.com/google/uuid"

	"linetask/domain/dto"
	"linetask/domain/models"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// EnsureChatUser resolves a messaging-platform user id to a local user,
	// creating one from the platform profile on first sight.
	EnsureChatUser(ctx context.Context, lineUserID string) (*models.User, error)
}
