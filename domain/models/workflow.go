package models

import (
	"time"
)

// MaxSubmissionAttachments คือจำนวนไฟล์สูงสุดต่อหนึ่ง submission
const MaxSubmissionAttachments = 5

type ReviewStatus string

const (
	ReviewNotRequested ReviewStatus = "not_requested"
	ReviewPending      ReviewStatus = "pending"
	ReviewApproved     ReviewStatus = "approved"
	ReviewRejected     ReviewStatus = "rejected"
)

// Submitter distinguishes an identified platform user from the generated
// guest tag used when the webhook cannot resolve an identity. Guest tags are
// never joined against the users table.
type Submitter struct {
	UserID   string `json:"userId,omitempty"`
	GuestTag string `json:"guestTag,omitempty"`
}

func IdentifiedSubmitter(userID string) Submitter {
	return Submitter{UserID: userID}
}

func GuestSubmitter(tag string) Submitter {
	return Submitter{GuestTag: tag}
}

func (s Submitter) Identified() bool {
	return s.UserID != ""
}

// Key is a stable identifier for display and KPI attribution.
func (s Submitter) Key() string {
	if s.Identified() {
		return s.UserID
	}
	return "guest:" + s.GuestTag
}

// Submission คือหลักฐานการส่งงานหนึ่งครั้ง เรียงจากเก่าไปใหม่
type Submission struct {
	Submitter   Submitter `json:"submitter"`
	FileIDs     []string  `json:"fileIds,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	Links       []string  `json:"links,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type Review struct {
	Status          ReviewStatus `json:"status"`
	RequestedAt     *time.Time   `json:"requestedAt,omitempty"`
	ReviewedBy      string       `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewedAt,omitempty"`
	ReviewerComment string       `json:"reviewerComment,omitempty"`
	AutoApproved    bool         `json:"autoApproved,omitempty"`
}

type ExtensionStatus string

const (
	ExtensionPending  ExtensionStatus = "pending"
	ExtensionApproved ExtensionStatus = "approved"
	ExtensionDenied   ExtensionStatus = "denied"
)

// ExtensionRequest คือคำขอเลื่อน due จาก assignee (คนละ flow กับ reject)
type ExtensionRequest struct {
	RequestedBy string          `json:"requestedBy"`
	RequestedAt time.Time       `json:"requestedAt"`
	Reason      string          `json:"reason,omitempty"`
	Status      ExtensionStatus `json:"status"`
	NewDueTime  *time.Time      `json:"newDueTime,omitempty"`
	ResolvedBy  string          `json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time      `json:"resolvedAt,omitempty"`
}

// Workflow is the embedded sub-document that determines a task's effective
// status: the ordered submission history plus the review judgment.
type Workflow struct {
	Submissions []Submission      `json:"submissions"`
	Review      Review            `json:"review"`
	Extension   *ExtensionRequest `json:"extension,omitempty"`

	// OriginalDueTime ถูก set ครั้งแรกที่ due ถูกเลื่อน
	OriginalDueTime *time.Time `json:"originalDueTime,omitempty"`
}

func NewWorkflow() Workflow {
	return Workflow{
		Submissions: []Submission{},
		Review:      Review{Status: ReviewNotRequested},
	}
}

func (w *Workflow) HasSubmissions() bool {
	return len(w.Submissions) > 0
}

// FirstSubmissionAt returns the oldest submission time; zero when none.
func (w *Workflow) FirstSubmissionAt() time.Time {
	if len(w.Submissions) == 0 {
		return time.Time{}
	}
	return w.Submissions[0].SubmittedAt
}

// LastSubmissionAt returns the newest submission time; zero when none.
func (w *Workflow) LastSubmissionAt() time.Time {
	if len(w.Submissions) == 0 {
		return time.Time{}
	}
	return w.Submissions[len(w.Submissions)-1].SubmittedAt
}

// resubmittedSinceReview reports whether any submission landed after the
// review verdict.
func (w *Workflow) resubmittedSinceReview() bool {
	if w.Review.ReviewedAt == nil {
		return true
	}
	return w.LastSubmissionAt().After(*w.Review.ReviewedAt)
}

// DueExtended reports whether an approved extension or a reject-redo moved
// the due time forward.
func (w *Workflow) DueExtended() bool {
	return w.OriginalDueTime != nil
}

// DeriveStatus returns the status the workflow evidence implies for a task
// currently in `current`: submission evidence or a pending review must never
// leave the task in pending/in_progress/overdue.
func (w *Workflow) DeriveStatus(current Status) Status {
	if !w.HasSubmissions() && w.Review.Status != ReviewPending {
		return current
	}
	// งานที่เพิ่งโดน reject และยังไม่ส่งใหม่ อยู่ระหว่างแก้งานโดยชอบ
	// ห้ามดันกลับเป็น submitted
	if w.Review.Status == ReviewRejected && !w.resubmittedSinceReview() {
		return current
	}
	switch current {
	case StatusPending, StatusInProgress, StatusOverdue:
		return StatusSubmitted
	}
	return current
}
