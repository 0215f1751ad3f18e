package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	GroupID           uuid.UUID   `json:"groupId" validate:"required"`
	Title             string      `json:"title" validate:"required,min=1,max=200"`
	Description       string      `json:"description" validate:"omitempty,max=2000"`
	Priority          string      `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags              []string    `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	DueTime           string      `json:"dueTime" validate:"required"`
	StartTime         string      `json:"startTime" validate:"omitempty"`
	RequireAttachment bool        `json:"requireAttachment"`
	AssigneeIDs       []uuid.UUID `json:"assigneeIds" validate:"required,min=1,dive,required"`
	ReviewerUserID    *uuid.UUID  `json:"reviewerUserId" validate:"omitempty"`
	InitialFileIDs    []uuid.UUID `json:"initialFileIds" validate:"omitempty,max=5"`

	// RecurringTaskID ถูก set โดย recurring generator เท่านั้น ไม่รับจาก client
	RecurringTaskID *uuid.UUID `json:"-"`
}

type SubmitTaskRequest struct {
	FileIDs []uuid.UUID `json:"fileIds" validate:"omitempty"`
	Comment string      `json:"comment" validate:"omitempty,max=2000"`
	Links   []string    `json:"links" validate:"omitempty,max=10,dive,url"`
}

type RejectTaskRequest struct {
	Comment       string `json:"comment" validate:"omitempty,max=2000"`
	ExtensionDays int    `json:"extensionDays" validate:"omitempty,min=0,max=90"`
}

type RequestExtensionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type ApproveExtensionRequest struct {
	NewDueTime string `json:"newDueTime" validate:"required"`
}

type SubmissionResponse struct {
	Submitter   string    `json:"submitter"`
	Identified  bool      `json:"identified"`
	FileIDs     []string  `json:"fileIds,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	Links       []string  `json:"links,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type ReviewResponse struct {
	Status          string     `json:"status"`
	RequestedAt     *time.Time `json:"requestedAt,omitempty"`
	ReviewedBy      string     `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	ReviewerComment string     `json:"reviewerComment,omitempty"`
	AutoApproved    bool       `json:"autoApproved,omitempty"`
}

type TaskResponse struct {
	ID                uuid.UUID            `json:"id"`
	GroupID           uuid.UUID            `json:"groupId"`
	Title             string               `json:"title"`
	Description       string               `json:"description,omitempty"`
	Priority          string               `json:"priority"`
	Tags              []string             `json:"tags,omitempty"`
	Status            string               `json:"status"`
	DueTime           time.Time            `json:"dueTime"`
	StartTime         *time.Time           `json:"startTime,omitempty"`
	RequireAttachment bool                 `json:"requireAttachment"`
	CreatedBy         uuid.UUID            `json:"createdBy"`
	ReviewerUserID    *uuid.UUID           `json:"reviewerUserId,omitempty"`
	SubmittedAt       *time.Time           `json:"submittedAt,omitempty"`
	CompletedAt       *time.Time           `json:"completedAt,omitempty"`
	RecurringTaskID   *uuid.UUID           `json:"recurringTaskId,omitempty"`
	Assignees         []UserResponse       `json:"assignees"`
	Submissions       []SubmissionResponse `json:"submissions"`
	Review            ReviewResponse       `json:"review"`
	IsOverdue         bool                 `json:"isOverdue"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

type PurgeGroupTasksResponse struct {
	Deleted int      `json:"deleted"`
	Errors  []string `json:"errors,omitempty"`
}
