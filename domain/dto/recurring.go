package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRecurringRequest struct {
	GroupID           uuid.UUID   `json:"groupId" validate:"required"`
	Title             string      `json:"title" validate:"required,min=1,max=200"`
	Description       string      `json:"description" validate:"omitempty,max=2000"`
	AssigneeIDs       []uuid.UUID `json:"assigneeIds" validate:"required,min=1,dive,required"`
	ReviewerUserID    *uuid.UUID  `json:"reviewerUserId" validate:"omitempty"`
	RequireAttachment bool        `json:"requireAttachment"`
	Priority          string      `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags              []string    `json:"tags" validate:"omitempty,max=20"`
	Recurrence        string      `json:"recurrence" validate:"required,oneof=weekly monthly quarterly"`
	InitialDueTime    string      `json:"initialDueTime" validate:"omitempty"`
	Weekday           *int        `json:"weekday" validate:"omitempty,min=0,max=6"`
	DayOfMonth        *int        `json:"dayOfMonth" validate:"omitempty,min=1,max=31"`
	TimeOfDay         string      `json:"timeOfDay" validate:"omitempty"`
	Timezone          string      `json:"timezone" validate:"omitempty"`
}

type UpdateRecurringRequest struct {
	Title             string      `json:"title" validate:"omitempty,min=1,max=200"`
	Description       *string     `json:"description" validate:"omitempty,max=2000"`
	AssigneeIDs       []uuid.UUID `json:"assigneeIds" validate:"omitempty,min=1"`
	ReviewerUserID    *uuid.UUID  `json:"reviewerUserId" validate:"omitempty"`
	RequireAttachment *bool       `json:"requireAttachment" validate:"omitempty"`
	Priority          string      `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags              []string    `json:"tags" validate:"omitempty,max=20"`
	InitialDueTime    string      `json:"initialDueTime" validate:"omitempty"`
	Timezone          string      `json:"timezone" validate:"omitempty"`
}

type RecurringResponse struct {
	ID                uuid.UUID   `json:"id"`
	GroupID           uuid.UUID   `json:"groupId"`
	Title             string      `json:"title"`
	Description       string      `json:"description,omitempty"`
	AssigneeIDs       []string    `json:"assigneeIds"`
	ReviewerUserID    *uuid.UUID  `json:"reviewerUserId,omitempty"`
	RequireAttachment bool        `json:"requireAttachment"`
	Priority          string      `json:"priority"`
	Tags              []string    `json:"tags,omitempty"`
	Recurrence        string      `json:"recurrence"`
	InitialDueTime    *time.Time  `json:"initialDueTime,omitempty"`
	Timezone          string      `json:"timezone"`
	Active            bool        `json:"active"`
	NextDueTime       *time.Time  `json:"nextDueTime,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

type GenerateRunResponse struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
