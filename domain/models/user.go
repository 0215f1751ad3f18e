package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	LineUserID  *string   `gorm:"size:64;uniqueIndex"` // id จาก messaging platform (nullable สำหรับ dashboard-only users)
	DisplayName string    `gorm:"not null"`
	PictureURL  string
	Email       string `gorm:"uniqueIndex"`
	Username    string `gorm:"uniqueIndex"`
	Password    string // nullable สำหรับ chat-only users
	Role        string `gorm:"default:'user'"` // user, admin
	IsActive    bool   `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (User) TableName() string {
	return "users"
}

// IsChatUser ตรวจสอบว่า user มาจาก messaging platform
func (u *User) IsChatUser() bool {
	return u.LineUserID != nil && *u.LineUserID != ""
}

// IsAdmin ตรวจสอบว่าเป็น admin
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
