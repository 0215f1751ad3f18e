package models

import (
	"time"

	"github.com/google/uuid"
)

// FileTag บอกว่าไฟล์ถูกแนบตอนสร้าง task หรือตอนส่งงาน
type FileTag string

const (
	FileTagInitial    FileTag = "initial"
	FileTagSubmission FileTag = "submission"
)

func (t FileTag) Valid() bool {
	return t == FileTagInitial || t == FileTagSubmission
}

type File struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FileName   string    `gorm:"not null"`
	FileSize   int64
	MimeType   string
	StorageKey string `gorm:"not null"` // object key ใน storage
	URL        string
	UploadedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (File) TableName() string {
	return "files"
}

// TaskFile is the task<->file association carrying the attachment tag.
type TaskFile struct {
	TaskID    uuid.UUID `gorm:"primaryKey;type:uuid"`
	FileID    uuid.UUID `gorm:"primaryKey;type:uuid"`
	File      File      `gorm:"foreignKey:FileID"`
	Tag       FileTag   `gorm:"type:varchar(16);not null;default:'initial'"`
	CreatedAt time.Time
}

func (TaskFile) TableName() string {
	return "task_files"
}
