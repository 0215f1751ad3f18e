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

type recurringServiceImpl struct {
	recurringRepo repositories.RecurringRepository
	taskRepo      repositories.TaskRepository
	groupRepo     repositories.GroupRepository
	userRepo      repositories.UserRepository
	workflow      services.WorkflowService
}

func NewRecurringService(
	recurringRepo repositories.RecurringRepository,
	taskRepo repositories.TaskRepository,
	groupRepo repositories.GroupRepository,
	userRepo repositories.UserRepository,
	workflow services.WorkflowService,
) services.RecurringService {
	return &recurringServiceImpl{
		recurringRepo: recurringRepo,
		taskRepo:      taskRepo,
		groupRepo:     groupRepo,
		userRepo:      userRepo,
		workflow:      workflow,
	}
}

func (s *recurringServiceImpl) Create(ctx context.Context, creatorID uuid.UUID, req *dto.CreateRecurringRequest) (*models.RecurringTask, error) {
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

	users, err := s.userRepo.ListByIDs(ctx, req.AssigneeIDs)
	if err != nil {
		return nil, err
	}
	if len(users) != len(dedupeIDs(req.AssigneeIDs)) {
		return nil, NewValidationError("assigneeIds", "contains unknown user")
	}

	priority := models.Priority(req.Priority)
	if req.Priority == "" {
		priority = models.PriorityMedium
	}

	template := &models.RecurringTask{
		ID:                uuid.New(),
		GroupID:           req.GroupID,
		Title:             req.Title,
		Description:       req.Description,
		AssigneeIDs:       idsToStrings(req.AssigneeIDs),
		ReviewerUserID:    req.ReviewerUserID,
		RequireAttachment: req.RequireAttachment,
		Priority:          priority,
		Tags:              req.Tags,
		Recurrence:        models.Recurrence(req.Recurrence),
		Weekday:           req.Weekday,
		DayOfMonth:        req.DayOfMonth,
		TimeOfDay:         req.TimeOfDay,
		Timezone:          req.Timezone,
		Active:            true,
		CreatedBy:         creatorID,
	}
	if req.InitialDueTime != "" {
		due, err := parseTaskTime(req.InitialDueTime)
		if err != nil {
			return nil, NewValidationError("initialDueTime", "must be RFC 3339")
		}
		template.InitialDueTime = &due
	}

	if err := template.Validate(); err != nil {
		return nil, NewValidationError("recurrence", err.Error())
	}
	if err := s.recurringRepo.Create(ctx, template); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "recurring template created",
		"template_id", template.ID, "group_id", template.GroupID,
		"recurrence", template.Recurrence)
	return template, nil
}

func (s *recurringServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.RecurringTask, error) {
	template, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFound("recurring task", id.String())
		}
		return nil, err
	}
	return template, nil
}

func (s *recurringServiceImpl) List(ctx context.Context, offset, limit int) ([]*models.RecurringTask, int64, error) {
	templates, err := s.recurringRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.recurringRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

func (s *recurringServiceImpl) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.RecurringTask, error) {
	return s.recurringRepo.ListByGroup(ctx, groupID)
}

func (s *recurringServiceImpl) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateRecurringRequest) (*models.RecurringTask, error) {
	template, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		template.Title = req.Title
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if len(req.AssigneeIDs) > 0 {
		users, err := s.userRepo.ListByIDs(ctx, req.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		if len(users) != len(dedupeIDs(req.AssigneeIDs)) {
			return nil, NewValidationError("assigneeIds", "contains unknown user")
		}
		template.AssigneeIDs = idsToStrings(req.AssigneeIDs)
	}
	if req.ReviewerUserID != nil {
		template.ReviewerUserID = req.ReviewerUserID
	}
	if req.RequireAttachment != nil {
		template.RequireAttachment = *req.RequireAttachment
	}
	if req.Priority != "" {
		template.Priority = models.Priority(req.Priority)
	}
	if req.Tags != nil {
		template.Tags = req.Tags
	}
	if req.InitialDueTime != "" {
		due, err := parseTaskTime(req.InitialDueTime)
		if err != nil {
			return nil, NewValidationError("initialDueTime", "must be RFC 3339")
		}
		template.InitialDueTime = &due
	}
	if req.Timezone != "" {
		template.Timezone = req.Timezone
	}

	if err := template.Validate(); err != nil {
		return nil, NewValidationError("recurrence", err.Error())
	}
	if err := s.recurringRepo.Update(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *recurringServiceImpl) Toggle(ctx context.Context, id uuid.UUID) (*models.RecurringTask, error) {
	template, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	template.Active = !template.Active
	if err := s.recurringRepo.Update(ctx, template); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "recurring template toggled",
		"template_id", template.ID, "active", template.Active)
	return template, nil
}

func (s *recurringServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.recurringRepo.Delete(ctx, id)
}

// GenerateDue spawns at most one task per active template per window. The
// window-existence check keys on the spawned task's due time, so reruns and
// overlapping ticks are no-ops.
func (s *recurringServiceImpl) GenerateDue(ctx context.Context, now time.Time) (*dto.GenerateRunResponse, error) {
	templates, err := s.recurringRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.GenerateRunResponse{}
	for _, tpl := range templates {
		created, err := s.generateOne(ctx, tpl, now)
		if err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("template %s: %v", tpl.ID, err))
			continue
		}
		if created {
			resp.Created++
		} else {
			resp.Skipped++
		}
	}

	if resp.Created > 0 || len(resp.Errors) > 0 {
		logger.InfoContext(ctx, "recurring generation finished",
			"created", resp.Created, "skipped", resp.Skipped, "errors", len(resp.Errors))
	}
	return resp, nil
}

func (s *recurringServiceImpl) generateOne(ctx context.Context, tpl *models.RecurringTask, now time.Time) (bool, error) {
	windowStart := tpl.WindowStart(now)
	windowEnd := tpl.NextWindowStart(now)
	due := tpl.DueTimeIn(windowStart)

	// due ของ window นี้ผ่านไปแล้ว รอ window หน้า
	if !due.After(now) {
		return false, nil
	}

	exists, err := s.taskRepo.ExistsForTemplateBetween(ctx, tpl.ID, windowStart, windowEnd)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	assigneeIDs := make([]uuid.UUID, 0, len(tpl.AssigneeIDs))
	for _, raw := range tpl.AssigneeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		assigneeIDs = append(assigneeIDs, id)
	}

	// spawn ผ่าน path เดียวกับ task ปกติ จะได้ validation + notification ครบ
	templateID := tpl.ID
	task, err := s.workflow.CreateTask(ctx, tpl.CreatedBy, &dto.CreateTaskRequest{
		GroupID:           tpl.GroupID,
		Title:             tpl.Title,
		Description:       tpl.Description,
		Priority:          string(tpl.Priority),
		Tags:              tpl.Tags,
		DueTime:           due.Format(time.RFC3339),
		RequireAttachment: tpl.RequireAttachment,
		AssigneeIDs:       assigneeIDs,
		ReviewerUserID:    tpl.ReviewerUserID,
		RecurringTaskID:   &templateID,
	})
	if err != nil {
		return false, err
	}

	logger.InfoContext(ctx, "recurring task spawned",
		"template_id", tpl.ID, "task_id", task.ID, "due", due)
	return true, nil
}

func idsToStrings(ids []uuid.UUID) models.StringList {
	out := make(models.StringList, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
