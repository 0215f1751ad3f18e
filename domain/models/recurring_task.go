package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Recurrence string

const (
	RecurrenceWeekly    Recurrence = "weekly"
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceWeekly, RecurrenceMonthly, RecurrenceQuarterly:
		return true
	}
	return false
}

const DefaultTimezone = "Asia/Bangkok"

var (
	ErrInvalidRecurrence = errors.New("invalid recurrence kind")
	ErrMissingAnchor     = errors.New("recurring template needs initialDueTime or legacy schedule fields")
)

// RecurringTask คือ template ที่ spawn task ตามรอบ
// ใช้ InitialDueTime เป็น anchor; field weekday/dayOfMonth/timeOfDay
// เป็นของระบบเก่า ยังรับอยู่เพื่อ template ที่ migrate มา
type RecurringTask struct {
	ID                uuid.UUID  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	GroupID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title             string     `gorm:"not null"`
	Description       string
	AssigneeIDs       StringList `gorm:"serializer:json;type:jsonb"`
	ReviewerUserID    *uuid.UUID `gorm:"type:uuid"`
	RequireAttachment bool       `gorm:"default:false"`
	Priority          Priority   `gorm:"type:varchar(16);default:'medium'"`
	Tags              StringList `gorm:"serializer:json;type:jsonb"`
	Recurrence        Recurrence `gorm:"type:varchar(16);not null"`
	InitialDueTime    *time.Time
	Weekday           *int   // legacy: 0=Sunday .. 6=Saturday
	DayOfMonth        *int   // legacy
	TimeOfDay         string // legacy: "18:00"
	Timezone          string `gorm:"size:64;default:'Asia/Bangkok'"`
	Active            bool   `gorm:"default:true;index"`
	CreatedBy         uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (RecurringTask) TableName() string {
	return "recurring_tasks"
}

func (r *RecurringTask) Validate() error {
	if !r.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if r.InitialDueTime == nil && r.Weekday == nil && r.DayOfMonth == nil {
		return ErrMissingAnchor
	}
	if _, err := r.Location(); err != nil {
		return err
	}
	if r.TimeOfDay != "" {
		if _, err := time.Parse("15:04", r.TimeOfDay); err != nil {
			return err
		}
	}
	return nil
}

func (r *RecurringTask) Location() (*time.Location, error) {
	tz := r.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	return time.LoadLocation(tz)
}

// WindowStart returns the start of the recurrence window containing now:
// ISO week (Monday 00:00), calendar month, or calendar quarter.
func (r *RecurringTask) WindowStart(now time.Time) time.Time {
	loc, err := r.Location()
	if err != nil {
		loc = time.UTC
	}
	now = now.In(loc)
	switch r.Recurrence {
	case RecurrenceWeekly:
		// ย้อนกลับไปวันจันทร์ 00:00
		offset := (int(now.Weekday()) + 6) % 7
		day := now.AddDate(0, 0, -offset)
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	case RecurrenceMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	case RecurrenceQuarterly:
		qm := time.Month(((int(now.Month())-1)/3)*3 + 1)
		return time.Date(now.Year(), qm, 1, 0, 0, 0, 0, loc)
	}
	return time.Time{}
}

// NextWindowStart returns the start of the window after the one containing now.
func (r *RecurringTask) NextWindowStart(now time.Time) time.Time {
	start := r.WindowStart(now)
	switch r.Recurrence {
	case RecurrenceWeekly:
		return start.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return start.AddDate(0, 1, 0)
	case RecurrenceQuarterly:
		return start.AddDate(0, 3, 0)
	}
	return start
}

// DueTimeIn computes the due instant for the window starting at windowStart,
// from the anchor time when present, otherwise from the legacy fields.
func (r *RecurringTask) DueTimeIn(windowStart time.Time) time.Time {
	loc := windowStart.Location()

	hour, minute := 18, 0 // default เย็นหกโมง
	if r.InitialDueTime != nil {
		anchor := r.InitialDueTime.In(loc)
		hour, minute = anchor.Hour(), anchor.Minute()
	} else if r.TimeOfDay != "" {
		if t, err := time.Parse("15:04", r.TimeOfDay); err == nil {
			hour, minute = t.Hour(), t.Minute()
		}
	}

	switch r.Recurrence {
	case RecurrenceWeekly:
		weekdayOffset := 4 // default ศุกร์
		if r.InitialDueTime != nil {
			weekdayOffset = (int(r.InitialDueTime.In(loc).Weekday()) + 6) % 7
		} else if r.Weekday != nil {
			weekdayOffset = (*r.Weekday + 6) % 7
		}
		day := windowStart.AddDate(0, 0, weekdayOffset)
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)

	case RecurrenceMonthly:
		day := r.anchorDay(loc)
		return dateClamped(windowStart.Year(), windowStart.Month(), day, hour, minute, loc)

	case RecurrenceQuarterly:
		day := r.anchorDay(loc)
		monthOffset := 0
		if r.InitialDueTime != nil {
			monthOffset = (int(r.InitialDueTime.In(loc).Month()) - 1) % 3
		}
		m := windowStart.AddDate(0, monthOffset, 0)
		return dateClamped(m.Year(), m.Month(), day, hour, minute, loc)
	}
	return time.Time{}
}

func (r *RecurringTask) anchorDay(loc *time.Location) int {
	if r.InitialDueTime != nil {
		return r.InitialDueTime.In(loc).Day()
	}
	if r.DayOfMonth != nil {
		return *r.DayOfMonth
	}
	return 1
}

// dateClamped clamps day to the length of the month (31 -> 28/29/30).
func dateClamped(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}
