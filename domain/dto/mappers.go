package dto

import (
	"time"

	"linetask/domain/models"
)

func UserToResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		PictureURL:  u.PictureURL,
		Email:       u.Email,
		Username:    u.Username,
		Role:        u.Role,
		IsChatUser:  u.IsChatUser(),
		CreatedAt:   u.CreatedAt,
	}
}

func GroupToResponse(g *models.Group) GroupResponse {
	return GroupResponse{
		ID:          g.ID,
		LineGroupID: g.LineGroupID,
		Name:        g.Name,
		IsActive:    g.IsActive,
		CreatedAt:   g.CreatedAt,
	}
}

func TaskToResponse(t *models.Task) *TaskResponse {
	assignees := make([]UserResponse, len(t.Assignees))
	for i := range t.Assignees {
		assignees[i] = UserToResponse(&t.Assignees[i])
	}

	submissions := make([]SubmissionResponse, len(t.Workflow.Submissions))
	for i, sub := range t.Workflow.Submissions {
		submissions[i] = SubmissionResponse{
			Submitter:   sub.Submitter.Key(),
			Identified:  sub.Submitter.Identified(),
			FileIDs:     sub.FileIDs,
			Comment:     sub.Comment,
			Links:       sub.Links,
			SubmittedAt: sub.SubmittedAt,
		}
	}

	return &TaskResponse{
		ID:                t.ID,
		GroupID:           t.GroupID,
		Title:             t.Title,
		Description:       t.Description,
		Priority:          string(t.Priority),
		Tags:              t.Tags,
		Status:            string(t.Status),
		DueTime:           t.DueTime,
		StartTime:         t.StartTime,
		RequireAttachment: t.RequireAttachment,
		CreatedBy:         t.CreatedBy,
		ReviewerUserID:    t.ReviewerUserID,
		SubmittedAt:       t.SubmittedAt,
		CompletedAt:       t.CompletedAt,
		RecurringTaskID:   t.RecurringTaskID,
		Assignees:         assignees,
		Submissions:       submissions,
		Review: ReviewResponse{
			Status:          string(t.Workflow.Review.Status),
			RequestedAt:     t.Workflow.Review.RequestedAt,
			ReviewedBy:      t.Workflow.Review.ReviewedBy,
			ReviewedAt:      t.Workflow.Review.ReviewedAt,
			ReviewerComment: t.Workflow.Review.ReviewerComment,
			AutoApproved:    t.Workflow.Review.AutoApproved,
		},
		IsOverdue: t.IsOverdue(time.Now()),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func TaskListToResponse(tasks []*models.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = *TaskToResponse(t)
	}
	return result
}

func RecurringToResponse(r *models.RecurringTask, now time.Time) *RecurringResponse {
	resp := &RecurringResponse{
		ID:                r.ID,
		GroupID:           r.GroupID,
		Title:             r.Title,
		Description:       r.Description,
		AssigneeIDs:       r.AssigneeIDs,
		ReviewerUserID:    r.ReviewerUserID,
		RequireAttachment: r.RequireAttachment,
		Priority:          string(r.Priority),
		Tags:              r.Tags,
		Recurrence:        string(r.Recurrence),
		InitialDueTime:    r.InitialDueTime,
		Timezone:          r.Timezone,
		Active:            r.Active,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.Active {
		due := r.DueTimeIn(r.WindowStart(now))
		if due.Before(now) {
			due = r.DueTimeIn(r.NextWindowStart(now))
		}
		resp.NextDueTime = &due
	}
	return resp
}

func KPIRecordToResponse(rec *models.KPIRecord) KPIRecordResponse {
	return KPIRecordResponse{
		ID:             rec.ID,
		GroupID:        rec.GroupID,
		UserID:         rec.UserID,
		TaskID:         rec.TaskID,
		CompletionType: string(rec.CompletionType),
		Points:         rec.Points,
		PeriodWeek:     rec.PeriodWeek,
		PeriodMonth:    rec.PeriodMonth,
		CreatedAt:      rec.CreatedAt,
	}
}

func FileToResponse(f *models.File, tag models.FileTag) FileResponse {
	return FileResponse{
		ID:        f.ID,
		FileName:  f.FileName,
		FileSize:  f.FileSize,
		MimeType:  f.MimeType,
		URL:       f.URL,
		Tag:       string(tag),
		CreatedAt: f.CreatedAt,
	}
}
