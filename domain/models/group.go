package models

import (
	"time"

	"github.com/google/uuid"
)

// Group คือห้องแชทที่ bot อยู่ (มาจาก join event ของ webhook)
type Group struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	LineGroupID string    `gorm:"size:64;uniqueIndex;not null"`
	Name        string
	IsActive    bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Group) TableName() string {
	return "groups"
}
