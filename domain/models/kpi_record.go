package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CompletionType จัดกลุ่มว่างานเสร็จแบบไหน ใช้คิดคะแนน KPI
type CompletionType string

const (
	CompletionOnTime       CompletionType = "on_time"
	CompletionLate         CompletionType = "late"
	CompletionExtended     CompletionType = "extended"
	CompletionAutoApproved CompletionType = "auto_approved"
)

// KPIRecord: หนึ่ง record ต่อ (task, assignee) - ห้ามซ้ำ
type KPIRecord struct {
	ID             uuid.UUID      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	GroupID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_kpi_task_user"`
	TaskID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_kpi_task_user"`
	CompletionType CompletionType `gorm:"type:varchar(16);not null"`
	Points         int            `gorm:"not null"`
	PeriodWeek     string         `gorm:"size:10;index"` // เช่น "2026-W35"
	PeriodMonth    string         `gorm:"size:7;index"`  // เช่น "2026-08"
	CreatedAt      time.Time
}

func (KPIRecord) TableName() string {
	return "kpi_records"
}

// WeekBucket formats t into the ISO-week period key.
func WeekBucket(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthBucket formats t into the calendar-month period key.
func MonthBucket(t time.Time) string {
	return t.Format("2006-01")
}
