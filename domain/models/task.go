package models

import (
	"time"

	"github.com/google/uuid"
)

// Status คือสถานะของ task (closed enum)
// ทุกการเปลี่ยน status ต้องผ่าน CanTransition เท่านั้น
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusReviewed   Status = "reviewed" // legacy alias of approved, kept for old rows
	StatusApproved   Status = "approved"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
	StatusCancelled  Status = "cancelled"
	StatusOverdue    Status = "overdue"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// allowedTransitions is the single source of truth for the task state machine.
// pending/in_progress/overdue all funnel into submitted; rejection sends the
// task back to in_progress with its submission history intact.
var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusSubmitted, StatusOverdue, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusSubmitted, StatusOverdue, StatusCompleted, StatusCancelled},
	StatusOverdue:    {StatusInProgress, StatusSubmitted, StatusCompleted, StatusCancelled},
	StatusSubmitted:  {StatusReviewed, StatusApproved, StatusRejected, StatusInProgress, StatusCompleted, StatusCancelled},
	StatusReviewed:   {StatusApproved, StatusCompleted, StatusCancelled},
	StatusApproved:   {StatusCompleted, StatusCancelled},
	StatusRejected:   {StatusInProgress, StatusSubmitted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition ตรวจสอบว่าเปลี่ยนจาก s ไป target ได้ไหม
func (s Status) CanTransition(target Status) bool {
	if s == target {
		return true
	}
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Actionable reports whether an assignee can still work on the task.
func (s Status) Actionable() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusOverdue, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the task left the active lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// StringList is stored as a JSONB array.
type StringList []string

type Task struct {
	ID                uuid.UUID  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	GroupID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	Group             Group      `gorm:"foreignKey:GroupID"`
	Title             string     `gorm:"not null"`
	Description       string
	Priority          Priority   `gorm:"type:varchar(16);default:'medium'"`
	Tags              StringList `gorm:"serializer:json;type:jsonb"`
	Status            Status     `gorm:"type:varchar(16);not null;default:'pending';index"`
	DueTime           time.Time  `gorm:"not null;index"`
	StartTime         *time.Time
	RequireAttachment bool       `gorm:"default:false"`
	CreatedBy         uuid.UUID  `gorm:"type:uuid;not null"`
	Creator           User       `gorm:"foreignKey:CreatedBy"`
	ReviewerUserID    *uuid.UUID `gorm:"type:uuid"`
	SubmittedAt       *time.Time
	CompletedAt       *time.Time
	RecurringTaskID   *uuid.UUID `gorm:"type:uuid;index"`
	Assignees         []User     `gorm:"many2many:task_assignees;"`

	// Workflow เก็บเป็น JSONB document บน row เดียวกัน
	Workflow Workflow `gorm:"serializer:json;type:jsonb"`

	// Version สำหรับ optimistic concurrency (compare-and-swap ตอน save)
	Version int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Task) TableName() string {
	return "tasks"
}

// Transition mutates Status after checking the transition table.
func (t *Task) Transition(target Status) error {
	if !target.Valid() {
		return ErrInvalidStatus
	}
	if !t.Status.CanTransition(target) {
		return ErrIllegalTransition
	}
	t.Status = target
	return nil
}

// EffectiveStatus reconciles the stored status with the workflow document.
// A task with submission evidence must never stay in an actionable pre-review
// state; the backfill maintenance op relies on this.
func (t *Task) EffectiveStatus() Status {
	return t.Workflow.DeriveStatus(t.Status)
}

// IsOverdue ตรวจสอบว่าเลย due แล้วแต่ยังไม่ถูกส่ง
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status.Actionable() && now.After(t.DueTime)
}

func (t *Task) IsAssignee(userID uuid.UUID) bool {
	for _, u := range t.Assignees {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// ExtendDue pushes the due time forward and remembers the original due time so
// KPI classification can tell "extended" apart from "late".
func (t *Task) ExtendDue(newDue time.Time) {
	if t.Workflow.OriginalDueTime == nil {
		orig := t.DueTime
		t.Workflow.OriginalDueTime = &orig
	}
	t.DueTime = newDue
}
