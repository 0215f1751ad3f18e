package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linetask/domain/dto"
	"linetask/domain/models"
)

func newMaintenanceEnv(t *testing.T) (*workflowEnv, *maintenanceServiceImpl) {
	t.Helper()
	env := newWorkflowEnv(t)
	maint := NewMaintenanceService(env.tasks, env.svc).(*maintenanceServiceImpl)
	maint.now = func() time.Time { return env.now }
	return env, maint
}

// seedDriftedTask เขียน task ที่มี submission ใน workflow แต่ status ค้างอยู่
// ที่ state เดิม (จำลอง crash ระหว่าง write)
func seedDriftedTask(t *testing.T, env *workflowEnv, status models.Status) *models.Task {
	t.Helper()
	submittedAt := env.now.Add(-time.Hour)
	task := &models.Task{
		ID:        uuid.New(),
		GroupID:   env.group.ID,
		Title:     "drifted",
		Status:    status,
		DueTime:   env.now.Add(24 * time.Hour),
		CreatedBy: env.creator.ID,
		Assignees: []models.User{*env.assignee},
		Workflow: models.Workflow{
			Submissions: []models.Submission{{
				Submitter:   models.IdentifiedSubmitter(env.assignee.ID.String()),
				Comment:     "done",
				SubmittedAt: submittedAt,
			}},
			Review: models.Review{Status: models.ReviewPending, RequestedAt: &submittedAt},
		},
	}
	require.NoError(t, env.tasks.Create(context.Background(), task))
	return task
}

func TestBackfillSubmittedStatuses(t *testing.T) {
	env, maint := newMaintenanceEnv(t)
	ctx := context.Background()

	drifted := seedDriftedTask(t, env, models.StatusInProgress)
	driftedOverdue := seedDriftedTask(t, env, models.StatusOverdue)
	clean := env.createTask(t) // ไม่มี submission ต้องไม่ถูกแตะ

	fixed, err := maint.BackfillSubmittedStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fixed)

	for _, id := range []uuid.UUID{drifted.ID, driftedOverdue.ID} {
		got, err := env.tasks.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSubmitted, got.Status)
		require.NotNil(t, got.SubmittedAt)
		// submittedAt มาจาก submission เก่าสุด
		assert.True(t, got.SubmittedAt.Equal(got.Workflow.FirstSubmissionAt()))
	}

	got, err := env.tasks.GetByID(ctx, clean.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	// รันซ้ำ ไม่มีอะไรให้แก้
	fixed, err = maint.BackfillSubmittedStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fixed)
}

func TestBackfillLeavesRejectedTasks(t *testing.T) {
	env, maint := newMaintenanceEnv(t)
	ctx := context.Background()
	task := env.createTask(t)

	_, err := env.svc.RecordSubmission(ctx, task.ID, models.IdentifiedSubmitter(env.assignee.ID.String()), nil, "v1", nil)
	require.NoError(t, err)
	env.now = env.now.Add(time.Hour)
	_, err = env.svc.RejectAndExtend(ctx, task.ID, env.reviewer.ID, "redo", 1)
	require.NoError(t, err)

	// งานที่เพิ่งโดน reject อยู่ระหว่างแก้ ห้าม backfill ดันกลับเป็น submitted
	fixed, err := maint.BackfillSubmittedStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fixed)

	got, err := env.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, models.ReviewRejected, got.Workflow.Review.Status)
}

func TestBackfillFixesEverythingInOneRun(t *testing.T) {
	env, maint := newMaintenanceEnv(t)
	ctx := context.Background()

	// เกินหนึ่ง batch เพื่อยืนยันว่า run เดียวกวาดครบ ไม่กระโดดข้าม
	const drifted = 250
	for i := 0; i < drifted; i++ {
		seedDriftedTask(t, env, models.StatusInProgress)
	}

	fixed, err := maint.BackfillSubmittedStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, drifted, fixed)

	remaining, err := env.tasks.ListByStatuses(ctx, []models.Status{models.StatusInProgress}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestForceSubmit(t *testing.T) {
	env, maint := newMaintenanceEnv(t)
	ctx := context.Background()
	task := env.createTask(t)

	got, err := maint.ForceSubmit(ctx, task.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
	require.Len(t, got.Workflow.Submissions, 1)
	assert.Equal(t, "guest:admin", got.Workflow.Submissions[0].Submitter.Key())
	assert.Equal(t, "submitted by admin", got.Workflow.Submissions[0].Comment)
}

func TestForceSubmitBypassesAttachmentRequirement(t *testing.T) {
	env, maint := newMaintenanceEnv(t)
	ctx := context.Background()
	task, err := env.svc.CreateTask(ctx, env.creator.ID, &dto.CreateTaskRequest{
		GroupID:           env.group.ID,
		Title:             "photo evidence",
		DueTime:           env.now.Add(24 * time.Hour).Format(time.RFC3339),
		RequireAttachment: true,
		AssigneeIDs:       []uuid.UUID{env.assignee.ID},
	})
	require.NoError(t, err)

	// ส่งปกติไม่ได้เพราะไม่มีไฟล์ แต่ admin force ผ่านได้
	_, err = env.svc.RecordSubmission(ctx, task.ID, models.IdentifiedSubmitter(env.assignee.ID.String()), nil, "no file", nil)
	require.Error(t, err)

	got, err := maint.ForceSubmit(ctx, task.ID, "file stuck on client side")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
	require.Len(t, got.Workflow.Submissions, 1)
	assert.Equal(t, "file stuck on client side", got.Workflow.Submissions[0].Comment)
}

func TestCompleteOverdueTasks(t *testing.T) {
	env, maint := newMaintenanceEnv(t)
	ctx := context.Background()

	first := env.createTask(t)
	second := env.createTask(t)
	active := env.createTask(t)

	env.now = env.now.Add(72 * time.Hour)
	_, err := env.svc.SweepOverdue(ctx)
	require.NoError(t, err)

	// ดึง active กลับมาก่อน bulk complete
	stored, err := env.tasks.GetByID(ctx, active.ID)
	require.NoError(t, err)
	require.NoError(t, stored.Transition(models.StatusInProgress))
	require.NoError(t, env.tasks.SaveWorkflow(ctx, stored))

	completed, err := maint.CompleteOverdueTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, completed)

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		got, err := env.tasks.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, got.Status)
		assert.True(t, got.Workflow.Review.AutoApproved)

		// ปิดผ่าน workflow จึงมี KPI ติดมาด้วย
		records, _ := env.kpiRepo.ListByTask(ctx, id)
		assert.Len(t, records, 1)
	}

	got, err := env.tasks.GetByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)

	// รอบสองไม่มี overdue เหลือ
	completed, err = maint.CompleteOverdueTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, completed)
}
