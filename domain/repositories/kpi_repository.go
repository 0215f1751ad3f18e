package repositories

import (
	"context"

	"github.com/google/uuid"

	"linetask/domain/models"
)

// LeaderboardEntry คือคะแนนรวมของ user หนึ่งคนใน period หนึ่ง
type LeaderboardEntry struct {
	UserID      uuid.UUID `json:"userId"`
	TotalPoints int       `json:"totalPoints"`
	TaskCount   int       `json:"taskCount"`
}

type KPIRepository interface {
	// Upsert inserts the record unless one already exists for the same
	// (task, user) natural key; returns whether a row was created.
	Upsert(ctx context.Context, record *models.KPIRecord) (bool, error)

	ExistsForTaskUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.KPIRecord, error)

	// LeaderboardWeekly/Monthly aggregate points per user for one group bucket.
	LeaderboardWeekly(ctx context.Context, groupID uuid.UUID, week string) ([]*LeaderboardEntry, error)
	LeaderboardMonthly(ctx context.Context, groupID uuid.UUID, month string) ([]*LeaderboardEntry, error)
}
