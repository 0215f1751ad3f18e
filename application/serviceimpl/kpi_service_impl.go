package serviceimpl

import (
	"context"
	"time"

	"github.com/google/uuid"

	"linetask/domain/dto"
	"linetask/domain/models"
	"linetask/domain/repositories"
	"linetask/domain/services"
	"linetask/pkg/logger"
)

// KPIConfig คือคะแนนต่อ completion type ปรับได้จาก env
type KPIConfig struct {
	PointsOnTime       int
	PointsExtended     int
	PointsLate         int
	PointsAutoApproved int
}

func DefaultKPIConfig() KPIConfig {
	return KPIConfig{
		PointsOnTime:       10,
		PointsExtended:     7,
		PointsLate:         5,
		PointsAutoApproved: 8,
	}
}

func (c KPIConfig) pointsFor(ct models.CompletionType) int {
	switch ct {
	case models.CompletionOnTime:
		return c.PointsOnTime
	case models.CompletionExtended:
		return c.PointsExtended
	case models.CompletionLate:
		return c.PointsLate
	case models.CompletionAutoApproved:
		return c.PointsAutoApproved
	}
	return 0
}

type kpiServiceImpl struct {
	kpiRepo  repositories.KPIRepository
	taskRepo repositories.TaskRepository
	userRepo repositories.UserRepository
	cfg      KPIConfig
}

func NewKPIService(
	kpiRepo repositories.KPIRepository,
	taskRepo repositories.TaskRepository,
	userRepo repositories.UserRepository,
	cfg KPIConfig,
) services.KPIService {
	return &kpiServiceImpl{
		kpiRepo:  kpiRepo,
		taskRepo: taskRepo,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// CompletionTypeFor classifies a completed task. Precedence:
// auto_approved ก่อน แล้วดูเวลาเทียบ due - extended ชนะ late เมื่อส่งทัน
// due ที่เลื่อนแล้ว เวลาอ้างอิงคือ submittedAt ถ้ามี ไม่งั้น completedAt
func (s *kpiServiceImpl) CompletionTypeFor(task *models.Task) models.CompletionType {
	if task.Workflow.Review.AutoApproved {
		return models.CompletionAutoApproved
	}

	ref := task.CompletedAt
	if task.SubmittedAt != nil {
		ref = task.SubmittedAt
	}
	if ref == nil {
		return models.CompletionAutoApproved
	}

	if task.Workflow.DueExtended() {
		if !ref.After(task.DueTime) {
			return models.CompletionExtended
		}
		return models.CompletionLate
	}
	if !ref.After(task.DueTime) {
		return models.CompletionOnTime
	}
	return models.CompletionLate
}

func (s *kpiServiceImpl) RecordTaskCompletion(ctx context.Context, task *models.Task, completionType models.CompletionType) error {
	if task.CompletedAt == nil {
		return NewConflict("task has no completion time")
	}
	points := s.cfg.pointsFor(completionType)
	week := models.WeekBucket(*task.CompletedAt)
	month := models.MonthBucket(*task.CompletedAt)

	for _, assignee := range task.Assignees {
		record := &models.KPIRecord{
			ID:             uuid.New(),
			GroupID:        task.GroupID,
			UserID:         assignee.ID,
			TaskID:         task.ID,
			CompletionType: completionType,
			Points:         points,
			PeriodWeek:     week,
			PeriodMonth:    month,
		}
		created, err := s.kpiRepo.Upsert(ctx, record)
		if err != nil {
			return err
		}
		if created {
			logger.InfoContext(ctx, "KPI recorded",
				"task_id", task.ID, "user_id", assignee.ID,
				"type", completionType, "points", points)
		}
	}
	return nil
}

func (s *kpiServiceImpl) Leaderboard(ctx context.Context, groupID uuid.UUID, period string, at time.Time) (*dto.LeaderboardResponse, error) {
	var (
		bucket  string
		entries []*repositories.LeaderboardEntry
		err     error
	)
	switch period {
	case "weekly":
		bucket = models.WeekBucket(at)
		entries, err = s.kpiRepo.LeaderboardWeekly(ctx, groupID, bucket)
	case "monthly":
		bucket = models.MonthBucket(at)
		entries, err = s.kpiRepo.LeaderboardMonthly(ctx, groupID, bucket)
	default:
		return nil, NewValidationError("period", "must be weekly or monthly")
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{
		GroupID: groupID,
		Period:  period,
		Bucket:  bucket,
		Entries: make([]dto.LeaderboardEntry, 0, len(entries)),
	}
	for _, e := range entries {
		entry := dto.LeaderboardEntry{
			UserID:      e.UserID,
			TotalPoints: e.TotalPoints,
			TaskCount:   e.TaskCount,
		}
		if user, uerr := s.userRepo.GetByID(ctx, e.UserID); uerr == nil {
			entry.DisplayName = user.DisplayName
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp, nil
}

// Resync scans completed tasks and re-upserts their KPI records. The upsert's
// natural key makes this safe to run any number of times.
func (s *kpiServiceImpl) Resync(ctx context.Context) (*dto.KPIResyncResponse, error) {
	resp := &dto.KPIResyncResponse{}
	const batch = 200
	offset := 0
	for {
		tasks, err := s.taskRepo.ListByStatuses(ctx,
			[]models.Status{models.StatusCompleted}, offset, batch)
		if err != nil {
			return nil, err
		}
		if len(tasks) == 0 {
			break
		}

		for _, task := range tasks {
			resp.Scanned++
			if task.CompletedAt == nil {
				continue
			}
			ct := s.CompletionTypeFor(task)
			points := s.cfg.pointsFor(ct)
			for _, assignee := range task.Assignees {
				created, err := s.kpiRepo.Upsert(ctx, &models.KPIRecord{
					ID:             uuid.New(),
					GroupID:        task.GroupID,
					UserID:         assignee.ID,
					TaskID:         task.ID,
					CompletionType: ct,
					Points:         points,
					PeriodWeek:     models.WeekBucket(*task.CompletedAt),
					PeriodMonth:    models.MonthBucket(*task.CompletedAt),
				})
				if err != nil {
					logger.WarnContext(ctx, "KPI resync upsert failed",
						"task_id", task.ID, "user_id", assignee.ID, "error", err)
					continue
				}
				if created {
					resp.Created++
				}
			}
		}
		offset += batch
	}

	logger.InfoContext(ctx, "KPI resync finished",
		"scanned", resp.Scanned, "created", resp.Created)
	return resp, nil
}
