package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linetask/domain/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestCompletionTypeFor(t *testing.T) {
	due := time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC)
	origDue := due.AddDate(0, 0, -2)
	svc := NewKPIService(newMemKPIRepo(), newMemTaskRepo(), newMemUserRepo(), DefaultKPIConfig()).(*kpiServiceImpl)

	tests := []struct {
		name string
		task models.Task
		want models.CompletionType
	}{
		{
			name: "submitted before due",
			task: models.Task{
				DueTime:     due,
				SubmittedAt: timePtr(due.Add(-time.Hour)),
				CompletedAt: timePtr(due.Add(2 * time.Hour)),
			},
			want: models.CompletionOnTime,
		},
		{
			name: "submitted after due",
			task: models.Task{
				DueTime:     due,
				SubmittedAt: timePtr(due.Add(time.Hour)),
				CompletedAt: timePtr(due.Add(2 * time.Hour)),
			},
			want: models.CompletionLate,
		},
		{
			name: "extended and met the new due",
			task: models.Task{
				DueTime:     due,
				SubmittedAt: timePtr(due.Add(-time.Minute)),
				CompletedAt: timePtr(due.Add(time.Hour)),
				Workflow:    models.Workflow{OriginalDueTime: &origDue},
			},
			want: models.CompletionExtended,
		},
		{
			name: "extended but still missed",
			task: models.Task{
				DueTime:     due,
				SubmittedAt: timePtr(due.Add(time.Hour)),
				Workflow:    models.Workflow{OriginalDueTime: &origDue},
			},
			want: models.CompletionLate,
		},
		{
			name: "auto approved wins over timing",
			task: models.Task{
				DueTime:     due,
				SubmittedAt: timePtr(due.Add(-time.Hour)),
				Workflow:    models.Workflow{Review: models.Review{AutoApproved: true}},
			},
			want: models.CompletionAutoApproved,
		},
		{
			name: "no submission falls back to completion time",
			task: models.Task{
				DueTime:     due,
				CompletedAt: timePtr(due.Add(-time.Hour)),
			},
			want: models.CompletionOnTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.CompletionTypeFor(&tt.task))
		})
	}
}

func TestRecordTaskCompletionIdempotent(t *testing.T) {
	ctx := context.Background()
	kpiRepo := newMemKPIRepo()
	userA := &models.User{ID: uuid.New(), DisplayName: "A"}
	userB := &models.User{ID: uuid.New(), DisplayName: "B"}
	svc := NewKPIService(kpiRepo, newMemTaskRepo(), newMemUserRepo(userA, userB), DefaultKPIConfig())

	completed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	task := &models.Task{
		ID:          uuid.New(),
		GroupID:     uuid.New(),
		DueTime:     completed.Add(time.Hour),
		CompletedAt: &completed,
		Assignees:   []models.User{*userA, *userB},
	}

	require.NoError(t, svc.RecordTaskCompletion(ctx, task, models.CompletionOnTime))
	require.NoError(t, svc.RecordTaskCompletion(ctx, task, models.CompletionOnTime))

	records, err := kpiRepo.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2) // หนึ่ง record ต่อ assignee ไม่ใช่ต่อการเรียก
	for _, rec := range records {
		assert.Equal(t, 10, rec.Points)
		assert.Equal(t, "2026-W36", rec.PeriodWeek)
		assert.Equal(t, "2026-08", rec.PeriodMonth)
	}
}

func TestRecordTaskCompletionRequiresCompletedAt(t *testing.T) {
	svc := NewKPIService(newMemKPIRepo(), newMemTaskRepo(), newMemUserRepo(), DefaultKPIConfig())
	err := svc.RecordTaskCompletion(context.Background(), &models.Task{ID: uuid.New()}, models.CompletionOnTime)
	domainErr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, domainErr.Code)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	kpiRepo := newMemKPIRepo()
	groupID := uuid.New()
	userA := &models.User{ID: uuid.New(), DisplayName: "Somchai"}
	userB := &models.User{ID: uuid.New(), DisplayName: "Malee"}
	svc := NewKPIService(kpiRepo, newMemTaskRepo(), newMemUserRepo(userA, userB), DefaultKPIConfig())

	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	week := models.WeekBucket(at)
	month := models.MonthBucket(at)
	seed := []struct {
		user   uuid.UUID
		points int
	}{
		{userA.ID, 10},
		{userA.ID, 7},
		{userB.ID, 5},
	}
	for _, s := range seed {
		_, err := kpiRepo.Upsert(ctx, &models.KPIRecord{
			ID:          uuid.New(),
			GroupID:     groupID,
			UserID:      s.user,
			TaskID:      uuid.New(),
			Points:      s.points,
			PeriodWeek:  week,
			PeriodMonth: month,
		})
		require.NoError(t, err)
	}

	resp, err := svc.Leaderboard(ctx, groupID, "weekly", at)
	require.NoError(t, err)
	assert.Equal(t, week, resp.Bucket)
	require.Len(t, resp.Entries, 2)

	byUser := map[uuid.UUID]int{}
	for _, e := range resp.Entries {
		byUser[e.UserID] = e.TotalPoints
		if e.UserID == userA.ID {
			assert.Equal(t, "Somchai", e.DisplayName)
			assert.Equal(t, 2, e.TaskCount)
		}
	}
	assert.Equal(t, 17, byUser[userA.ID])
	assert.Equal(t, 5, byUser[userB.ID])

	// record ของสัปดาห์อื่นต้องไม่ติดมา
	resp, err = svc.Leaderboard(ctx, groupID, "weekly", at.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.Empty(t, resp.Entries)

	_, err = svc.Leaderboard(ctx, groupID, "yearly", at)
	domainErr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, domainErr.Code)
}

func TestResyncBackfillsMissingRecords(t *testing.T) {
	ctx := context.Background()
	kpiRepo := newMemKPIRepo()
	taskRepo := newMemTaskRepo()
	assignee := &models.User{ID: uuid.New(), DisplayName: "A"}
	svc := NewKPIService(kpiRepo, taskRepo, newMemUserRepo(assignee), DefaultKPIConfig())

	completed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	groupID := uuid.New()

	// completed task ที่ไม่มี KPI record (crash หลัง status write)
	lost := &models.Task{
		ID:          uuid.New(),
		GroupID:     groupID,
		Status:      models.StatusCompleted,
		DueTime:     completed.Add(time.Hour),
		CompletedAt: &completed,
		Assignees:   []models.User{*assignee},
	}
	// completed task ที่มี record อยู่แล้ว
	recorded := &models.Task{
		ID:          uuid.New(),
		GroupID:     groupID,
		Status:      models.StatusCompleted,
		DueTime:     completed.Add(time.Hour),
		CompletedAt: &completed,
		Assignees:   []models.User{*assignee},
	}
	// task ที่ยังไม่จบ ต้องไม่ถูกนับ
	open := &models.Task{
		ID:      uuid.New(),
		GroupID: groupID,
		Status:  models.StatusInProgress,
		DueTime: completed.Add(time.Hour),
	}
	for _, task := range []*models.Task{lost, recorded, open} {
		require.NoError(t, taskRepo.Create(ctx, task))
	}
	_, err := kpiRepo.Upsert(ctx, &models.KPIRecord{
		ID: uuid.New(), GroupID: groupID, UserID: assignee.ID, TaskID: recorded.ID,
		Points: 10, PeriodWeek: models.WeekBucket(completed), PeriodMonth: models.MonthBucket(completed),
	})
	require.NoError(t, err)

	resp, err := svc.Resync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Scanned)
	assert.Equal(t, 1, resp.Created)

	records, _ := kpiRepo.ListByTask(ctx, lost.ID)
	require.Len(t, records, 1)
	assert.Equal(t, models.CompletionOnTime, records[0].CompletionType)

	// รันซ้ำต้องไม่สร้างเพิ่ม
	resp, err = svc.Resync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Created)
}
