package dto

import (
	"time"

	"github.com/google/uuid"
)

type KPIRecordResponse struct {
	ID             uuid.UUID `json:"id"`
	GroupID        uuid.UUID `json:"groupId"`
	UserID         uuid.UUID `json:"userId"`
	TaskID         uuid.UUID `json:"taskId"`
	CompletionType string    `json:"completionType"`
	Points         int       `json:"points"`
	PeriodWeek     string    `json:"periodWeek"`
	PeriodMonth    string    `json:"periodMonth"`
	CreatedAt      time.Time `json:"createdAt"`
}

type LeaderboardResponse struct {
	GroupID uuid.UUID          `json:"groupId"`
	Period  string             `json:"period"` // weekly หรือ monthly
	Bucket  string             `json:"bucket"` // เช่น "2026-W35" / "2026-08"
	Entries []LeaderboardEntry `json:"entries"`
}

type LeaderboardEntry struct {
	UserID      uuid.UUID `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	TotalPoints int       `json:"totalPoints"`
	TaskCount   int       `json:"taskCount"`
}

type KPIResyncResponse struct {
	Scanned int `json:"scanned"`
	Created int `json:"created"`
}
