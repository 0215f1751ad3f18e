package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	PictureURL  string    `json:"pictureUrl,omitempty"`
	Email       string    `json:"email,omitempty"`
	Username    string    `json:"username,omitempty"`
	Role        string    `json:"role"`
	IsChatUser  bool      `json:"isChatUser"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	LineGroupID string    `json:"lineGroupId"`
	Name        string    `json:"name,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}
