package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"linetask/domain/dto"
	"linetask/domain/models"
)

type KPIService interface {
	// CompletionTypeFor เป็น pure function จาก task ที่เสร็จแล้ว
	CompletionTypeFor(task *models.Task) models.CompletionType

	// RecordTaskCompletion upserts one KPIRecord per (task, assignee);
	// re-invocation never duplicates.
	RecordTaskCompletion(ctx context.Context, task *models.Task, completionType models.CompletionType) error

	// Leaderboard: period = "weekly" | "monthly", at กำหนด bucket
	Leaderboard(ctx context.Context, groupID uuid.UUID, period string, at time.Time) (*dto.LeaderboardResponse, error)

	// Resync backfills KPI records for completed tasks that lost theirs
	// (crash between status write and KPI write).
	Resync(ctx context.Context) (*dto.KPIResyncResponse, error)
}
