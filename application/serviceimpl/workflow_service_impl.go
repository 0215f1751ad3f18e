package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"linetask/domain/dto"
	"linetask/domain/models"
	"linetask/domain/repositories"
	"linetask/domain/services"
	"linetask/pkg/logger"
)

// casRetries คือจำนวนครั้งสูงสุดที่จะ retry เมื่อ version ชน
const casRetries = 3

// WorkflowConfig ปรับพฤติกรรมของ state machine ได้จาก env
type WorkflowConfig struct {
	// AutoCompleteOnApprove: approve แล้วปิด task เลยโดยไม่ต้องเรียก complete ซ้ำ
	AutoCompleteOnApprove bool
	// ExtensionRequestWindow คือช่วงเวลาหลังสร้าง task ที่ยังขอเลื่อนได้
	ExtensionRequestWindow time.Duration
	// DefaultRejectExtensionDays ใช้เมื่อ reviewer ไม่ได้ระบุจำนวนวัน
	DefaultRejectExtensionDays int
}

func DefaultWorkflowConfig() WorkflowConfig {
	return WorkflowConfig{
		AutoCompleteOnApprove:      true,
		ExtensionRequestWindow:     24 * time.Hour,
		DefaultRejectExtensionDays: 1,
	}
}

type workflowServiceImpl struct {
	taskRepo  repositories.TaskRepository
	userRepo  repositories.UserRepository
	groupRepo repositories.GroupRepository
	fileRepo  repositories.FileRepository
	kpi       services.KPIService
	files     services.FileService
	cfg       WorkflowConfig

	// now ถูก override ใน tests
	now func() time.Time
}

func NewWorkflowService(
	taskRepo repositories.TaskRepository,
	userRepo repositories.UserRepository,
	groupRepo repositories.GroupRepository,
	fileRepo repositories.FileRepository,
	kpi services.KPIService,
	files services.FileService,
	cfg WorkflowConfig,
) services.WorkflowService {
	return &workflowServiceImpl{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		groupRepo: groupRepo,
		fileRepo:  fileRepo,
		kpi:       kpi,
		files:     files,
		cfg:       cfg,
		now:       time.Now,
	}
}

// mutateTask loads the task, applies fn, and saves with a compare-and-swap on
// Version. On ErrVersionConflict it reloads and reapplies, so two callers
// appending submissions concurrently both land. Shared with the maintenance
// repair ops.
func mutateTask(ctx context.Context, repo repositories.TaskRepository, taskID uuid.UUID, fn func(*models.Task) error) (*models.Task, error) {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		task, err := repo.GetByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, NewNotFound("task", taskID.String())
			}
			return nil, err
		}

		if err := fn(task); err != nil {
			return nil, err
		}

		if err := repo.SaveWorkflow(ctx, task); err != nil {
			if errors.Is(err, repositories.ErrVersionConflict) {
				lastErr = err
				logger.WarnContext(ctx, "task version conflict, retrying",
					"task_id", taskID, "attempt", attempt+1)
				continue
			}
			return nil, err
		}
		return task, nil
	}
	logger.ErrorContext(ctx, "task update lost all retries", "task_id", taskID, "error", lastErr)
	return nil, NewConflict("task was modified concurrently, please retry")
}

func (s *workflowServiceImpl) mutate(ctx context.Context, taskID uuid.UUID, fn func(*models.Task) error) (*models.Task, error) {
	return mutateTask(ctx, s.taskRepo, taskID, fn)
}

// applySubmission appends the submission, marks the review pending and funnels
// the status to submitted. The caller checks attachment policy first; the
// admin force-submit path skips that check on purpose.
func applySubmission(task *models.Task, sub models.Submission) error {
	now := sub.SubmittedAt
	task.Workflow.Submissions = append(task.Workflow.Submissions, sub)
	task.Workflow.Review.Status = models.ReviewPending
	if task.Workflow.Review.RequestedAt == nil {
		task.Workflow.Review.RequestedAt = &now
	}
	if task.SubmittedAt == nil {
		task.SubmittedAt = &now
	}

	// pending/in_progress/overdue ทั้งหมด funnel เข้า submitted
	if next := task.Workflow.DeriveStatus(task.Status); next != task.Status {
		return task.Transition(next)
	}
	return nil
}

func (s *workflowServiceImpl) CreateTask(ctx context.Context, creatorID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	dueTime, err := parseTaskTime(req.DueTime)
	if err != nil {
		return nil, NewValidationError("dueTime", "must be RFC 3339, e.g. 2026-09-04T18:00:00+07:00")
	}
	if dueTime.Before(s.now()) {
		return nil, NewValidationError("dueTime", "must not be in the past")
	}

	var startTime *time.Time
	if req.StartTime != "" {
		st, err := parseTaskTime(req.StartTime)
		if err != nil {
			return nil, NewValidationError("startTime", "must be RFC 3339")
		}
		if !st.Before(dueTime) {
			return nil, NewValidationError("startTime", "must be before dueTime")
		}
		startTime = &st
	}

	priority := models.Priority(req.Priority)
	if req.Priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, NewValidationError("priority", "must be low, medium or high")
	}

	group, err := s.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFound("group", req.GroupID.String())
		}
		return nil, err
	}
	if !group.IsActive {
		return nil, NewConflict("group is deactivated")
	}

	assignees, err := s.userRepo.ListByIDs(ctx, req.AssigneeIDs)
	if err != nil {
		return nil, err
	}
	if len(assignees) != len(dedupeIDs(req.AssigneeIDs)) {
		return nil, NewValidationError("assigneeIds", "contains unknown user")
	}

	if req.ReviewerUserID != nil {
		if _, err := s.userRepo.GetByID(ctx, *req.ReviewerUserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, NewNotFound("user", req.ReviewerUserID.String())
			}
			return nil, err
		}
	}

	users := make([]models.User, 0, len(assignees))
	for _, u := range assignees {
		users = append(users, *u)
	}

	task := &models.Task{
		ID:                uuid.New(),
		GroupID:           req.GroupID,
		Title:             req.Title,
		Description:       req.Description,
		Priority:          priority,
		Tags:              req.Tags,
		Status:            models.StatusPending,
		DueTime:           dueTime,
		StartTime:         startTime,
		RequireAttachment: req.RequireAttachment,
		CreatedBy:         creatorID,
		ReviewerUserID:    req.ReviewerUserID,
		RecurringTaskID:   req.RecurringTaskID,
		Assignees:         users,
		Workflow:          models.NewWorkflow(),
		// extension-request window นับจากเวลานี้
		CreatedAt: s.now(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	for _, fileID := range req.InitialFileIDs {
		if err := s.fileRepo.Attach(ctx, task.ID, fileID, models.FileTagInitial); err != nil {
			logger.WarnContext(ctx, "failed to attach initial file",
				"task_id", task.ID, "file_id", fileID, "error", err)
		}
	}

	logger.InfoContext(ctx, "task created",
		"task_id", task.ID, "group_id", task.GroupID, "assignees", len(users))
	return task, nil
}

func (s *workflowServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFound("task", taskID.String())
		}
		return nil, err
	}
	return task, nil
}

func (s *workflowServiceImpl) ListTasks(ctx context.Context, offset, limit int) ([]*models.Task, int64, error) {
	tasks, err := s.taskRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.taskRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *workflowServiceImpl) ListGroupTasks(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]*models.Task, int64, error) {
	tasks, err := s.taskRepo.ListByGroup(ctx, groupID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.taskRepo.CountByGroup(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *workflowServiceImpl) RecordSubmission(ctx context.Context, taskID uuid.UUID, submitter models.Submitter, fileIDs []uuid.UUID, comment string, links []string) (*models.Task, error) {
	if len(fileIDs) > models.MaxSubmissionAttachments {
		return nil, NewValidationError("fileIds",
			fmt.Sprintf("at most %d attachments per submission", models.MaxSubmissionAttachments))
	}

	now := s.now()
	task, err := s.mutate(ctx, taskID, func(task *models.Task) error {
		if task.Status.Terminal() {
			return NewConflict("task is already " + string(task.Status))
		}
		if task.RequireAttachment && len(fileIDs) == 0 {
			return NewValidationError("fileIds", "this task requires an attachment")
		}

		ids := make([]string, 0, len(fileIDs))
		for _, id := range fileIDs {
			ids = append(ids, id.String())
		}
		return applySubmission(task, models.Submission{
			Submitter:   submitter,
			FileIDs:     ids,
			Comment:     comment,
			Links:       links,
			SubmittedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	for _, fileID := range fileIDs {
		if err := s.fileRepo.Attach(ctx, task.ID, fileID, models.FileTagSubmission); err != nil {
			logger.WarnContext(ctx, "failed to attach submission file",
				"task_id", task.ID, "file_id", fileID, "error", err)
		}
	}

	logger.InfoContext(ctx, "submission recorded",
		"task_id", task.ID, "submitter", submitter.Key(), "files", len(fileIDs))
	return task, nil
}

// canReview: reviewer ที่ระบุไว้ หรือคนสร้าง task
func canReview(task *models.Task, userID uuid.UUID) bool {
	if task.ReviewerUserID != nil && *task.ReviewerUserID == userID {
		return true
	}
	return task.CreatedBy == userID
}

func (s *workflowServiceImpl) ApproveReview(ctx context.Context, taskID, approverID uuid.UUID) (*models.Task, error) {
	now := s.now()
	var completed bool
	task, err := s.mutate(ctx, taskID, func(task *models.Task) error {
		completed = false
		if task.Workflow.Review.Status == models.ReviewApproved {
			return nil // idempotent
		}
		if !canReview(task, approverID) {
			return NewPermissionDenied("only the reviewer or the task creator can approve")
		}
		if task.Workflow.Review.Status != models.ReviewPending {
			return NewConflict("task has no review awaiting approval")
		}

		task.Workflow.Review.Status = models.ReviewApproved
		task.Workflow.Review.ReviewedBy = approverID.String()
		task.Workflow.Review.ReviewedAt = &now

		target := models.StatusApproved
		if s.cfg.AutoCompleteOnApprove {
			target = models.StatusCompleted
		}
		if err := task.Transition(target); err != nil {
			return err
		}
		if target == models.StatusCompleted {
			task.CompletedAt = &now
			completed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.recordKPI(ctx, task)
	}
	logger.InfoContext(ctx, "review approved",
		"task_id", task.ID, "approver_id", approverID, "status", task.Status)
	return task, nil
}

func (s *workflowServiceImpl) RejectAndExtend(ctx context.Context, taskID, reviewerID uuid.UUID, comment string, extensionDays int) (*models.Task, error) {
	if extensionDays <= 0 {
		extensionDays = s.cfg.DefaultRejectExtensionDays
	}
	now := s.now()
	task, err := s.mutate(ctx, taskID, func(task *models.Task) error {
		if !canReview(task, reviewerID) {
			return NewPermissionDenied("only the reviewer or the task creator can reject")
		}
		if task.Workflow.Review.Status != models.ReviewPending {
			return NewConflict("task has no review awaiting judgment")
		}

		task.Workflow.Review.Status = models.ReviewRejected
		task.Workflow.Review.ReviewedBy = reviewerID.String()
		task.Workflow.Review.ReviewedAt = &now
		task.Workflow.Review.ReviewerComment = comment

		// ประวัติ submissions เดิมคงอยู่ งานกลับไปให้แก้ และได้เวลาเพิ่มเสมอ
		// โดยนับต่อจาก due เดิม ไม่ใช่จากเวลานี้
		task.ExtendDue(task.DueTime.AddDate(0, 0, extensionDays))
		return task.Transition(models.StatusInProgress)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "review rejected, task reopened",
		"task_id", task.ID, "reviewer_id", reviewerID, "extension_days", extensionDays)
	return task, nil
}

func (s *workflowServiceImpl) CompleteTask(ctx context.Context, taskID, completerID uuid.UUID) (*models.Task, error) {
	now := s.now()
	var completed bool
	task, err := s.mutate(ctx, taskID, func(task *models.Task) error {
		completed = false
		if task.Status == models.StatusCompleted {
			return nil // idempotent
		}
		if task.Status == models.StatusCancelled {
			return NewConflict("task is cancelled")
		}

		// ปิดงานโดยไม่ผ่าน review = implicit approval
		if task.Workflow.Review.Status != models.ReviewApproved {
			task.Workflow.Review.Status = models.ReviewApproved
			task.Workflow.Review.ReviewedBy = completerID.String()
			task.Workflow.Review.ReviewedAt = &now
			task.Workflow.Review.AutoApproved = true
		}
		if err := task.Transition(models.StatusCompleted); err != nil {
			return err
		}
		task.CompletedAt = &now
		completed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.recordKPI(ctx, task)
	}
	logger.InfoContext(ctx, "task completed", "task_id", task.ID, "completer_id", completerID)
	return task, nil
}

// recordKPI runs after the status write; failure here must not undo the
// completion, the resync job picks up the gap.
func (s *workflowServiceImpl) recordKPI(ctx context.Context, task *models.Task) {
	if s.kpi == nil {
		return
	}
	ct := s.kpi.CompletionTypeFor(task)
	if err := s.kpi.RecordTaskCompletion(ctx, task, ct); err != nil {
		logger.ErrorContext(ctx, "failed to record KPI, resync will backfill",
			"task_id", task.ID, "error", err)
	}
}

func (s *workflowServiceImpl) RequestExtension(ctx context.Context, taskID uuid.UUID, requester models.Submitter, reason string) (*models.Task, error) {
	now := s.now()
	task, err := s.mutate(ctx, taskID, func(task *models.Task) error {
		if task.Status.Terminal() {
			return NewConflict("task is already " + string(task.Status))
		}
		if task.Workflow.Extension != nil && task.Workflow.Extension.Status == models.ExtensionPending {
			return NewConflict("an extension request is already pending")
		}
		// ขอเลื่อนได้เฉพาะภายใน window หลังสร้างงาน
		if now.After(task.CreatedAt.Add(s.cfg.ExtensionRequestWindow)) {
			return NewConflict("extension window has closed")
		}

		task.Workflow.Extension = &models.ExtensionRequest{
			RequestedBy: requester.Key(),
			RequestedAt: now,
			Reason:      reason,
			Status:      models.ExtensionPending,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "extension requested",
		"task_id", task.ID, "requester", requester.Key())
	return task, nil
}

func (s *workflowServiceImpl) ApproveExtension(ctx context.Context, taskID, approverID uuid.UUID, newDueTime time.Time) (*models.Task, error) {
	now := s.now()
	task, err := s.mutate(ctx, taskID, func(task *models.Task) error {
		if task.CreatedBy != approverID {
			return NewPermissionDenied("only the task creator can approve an extension")
		}
		ext := task.Workflow.Extension
		if ext == nil || ext.Status != models.ExtensionPending {
			return NewConflict("no pending extension request")
		}
		if !newDueTime.After(task.DueTime) {
			return NewValidationError("newDueTime", "must be after the current due time")
		}

		ext.Status = models.ExtensionApproved
		ext.NewDueTime = &newDueTime
		ext.ResolvedBy = approverID.String()
		ext.ResolvedAt = &now
		task.ExtendDue(newDueTime)

		// งานที่เลย due ไปแล้วกลับมา active
		if task.Status == models.StatusOverdue {
			return task.Transition(models.StatusInProgress)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "extension approved",
		"task_id", task.ID, "approver_id", approverID, "new_due", newDueTime)
	return task, nil
}

func (s *workflowServiceImpl) SweepOverdue(ctx context.Context) (int, error) {
	now := s.now()
	tasks, err := s.taskRepo.ListDueBefore(ctx, now,
		[]models.Status{models.StatusPending, models.StatusInProgress})
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, t := range tasks {
		_, err := s.mutate(ctx, t.ID, func(task *models.Task) error {
			// reload อาจเห็น state ใหม่ ตรวจซ้ำก่อน mark
			if !task.IsOverdue(now) || task.Status == models.StatusOverdue {
				return errSkipSweep
			}
			return task.Transition(models.StatusOverdue)
		})
		if err != nil {
			if errors.Is(err, errSkipSweep) {
				continue
			}
			logger.WarnContext(ctx, "overdue sweep failed for task", "task_id", t.ID, "error", err)
			continue
		}
		swept++
	}

	if swept > 0 {
		logger.InfoContext(ctx, "overdue sweep finished", "marked", swept)
	}
	return swept, nil
}

var errSkipSweep = errors.New("skip sweep")

func (s *workflowServiceImpl) DeleteGroupTasks(ctx context.Context, groupID uuid.UUID) (*services.PurgeResult, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFound("group", groupID.String())
		}
		return nil, err
	}

	result := &services.PurgeResult{}
	const batch = 200
	for {
		tasks, err := s.taskRepo.ListByGroup(ctx, groupID, 0, batch)
		if err != nil {
			return nil, err
		}
		if len(tasks) == 0 {
			break
		}

		progressed := false
		for _, t := range tasks {
			if s.files != nil {
				for _, ferr := range s.files.DeleteTaskAttachments(ctx, t.ID) {
					result.Errors = append(result.Errors,
						fmt.Sprintf("task %s: %v", t.ID, ferr))
				}
			}
			if err := s.taskRepo.Delete(ctx, t.ID); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("task %s: %v", t.ID, err))
				continue
			}
			result.Deleted++
			progressed = true
		}
		if !progressed {
			break // ลบไม่ได้สักตัว อย่าวนลูปค้าง
		}
	}

	logger.InfoContext(ctx, "group tasks purged",
		"group_id", groupID, "deleted", result.Deleted, "errors", len(result.Errors))
	return result, nil
}

// parseTaskTime accepts RFC 3339 with or without an offset.
func parseTaskTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
