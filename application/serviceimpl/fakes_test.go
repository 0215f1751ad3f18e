package serviceimpl

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"linetask/domain/models"
	"linetask/domain/ports"
	"linetask/domain/repositories"
)

// ───────────────────────── task repository ─────────────────────────

type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*models.Task
	order []uuid.UUID

	// beforeSave ถูกเรียกก่อน CAS check ใช้จำลอง concurrent writer
	beforeSave func(stored *models.Task)
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[uuid.UUID]*models.Task)}
}

func cloneTask(t *models.Task) *models.Task {
	c := *t
	c.Tags = append(models.StringList(nil), t.Tags...)
	c.Assignees = append([]models.User(nil), t.Assignees...)
	w := t.Workflow
	w.Submissions = append([]models.Submission(nil), t.Workflow.Submissions...)
	if t.Workflow.Extension != nil {
		e := *t.Workflow.Extension
		w.Extension = &e
	}
	if t.Workflow.OriginalDueTime != nil {
		orig := *t.Workflow.OriginalDueTime
		w.OriginalDueTime = &orig
	}
	c.Workflow = w
	return &c
}

func (r *memTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = cloneTask(task)
	r.order = append(r.order, task.ID)
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneTask(t), nil
}

func (r *memTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.tasks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memTaskRepo) all() []*models.Task {
	out := make([]*models.Task, 0, len(r.order))
	for _, id := range r.order {
		if t, ok := r.tasks[id]; ok {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

func page(tasks []*models.Task, offset, limit int) []*models.Task {
	if offset >= len(tasks) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(tasks) {
		end = len(tasks)
	}
	return tasks[offset:end]
}

func (r *memTaskRepo) List(_ context.Context, offset, limit int) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.all(), offset, limit), nil
}

func (r *memTaskRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.tasks)), nil
}

func (r *memTaskRepo) ListByGroup(_ context.Context, groupID uuid.UUID, offset, limit int) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, t := range r.all() {
		if t.GroupID == groupID {
			out = append(out, t)
		}
	}
	return page(out, offset, limit), nil
}

func (r *memTaskRepo) CountByGroup(_ context.Context, groupID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tasks {
		if t.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (r *memTaskRepo) ListByStatuses(_ context.Context, statuses []models.Status, offset, limit int) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, t := range r.all() {
		for _, s := range statuses {
			if t.Status == s {
				out = append(out, t)
				break
			}
		}
	}
	return page(out, offset, limit), nil
}

func (r *memTaskRepo) ListDueBefore(_ context.Context, at time.Time, statuses []models.Status) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, t := range r.all() {
		if !t.DueTime.Before(at) {
			continue
		}
		for _, s := range statuses {
			if t.Status == s {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (r *memTaskRepo) ExistsForTemplateBetween(_ context.Context, templateID uuid.UUID, from, to time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.RecurringTaskID == nil || *t.RecurringTaskID != templateID {
			continue
		}
		if !t.DueTime.Before(from) && t.DueTime.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTaskRepo) SaveWorkflow(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[task.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.beforeSave != nil {
		hook := r.beforeSave
		r.beforeSave = nil
		hook(stored)
	}
	prev := task.Version
	if stored.Version != prev {
		return repositories.ErrVersionConflict
	}
	task.Version++
	r.tasks[task.ID] = cloneTask(task)
	return nil
}

// ───────────────────────── user repository ─────────────────────────

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.Email == email })
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.Username == username })
}

func (r *memUserRepo) GetByLineUserID(_ context.Context, lineUserID string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool {
		return u.LineUserID != nil && *u.LineUserID == lineUserID
	})
}

func (r *memUserRepo) findBy(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uuid.UUID]struct{})
	var out []*models.User
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if u, ok := r.users[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *user
	r.users[user.ID] = &c
	return nil
}

// ───────────────────────── group repository ─────────────────────────

type memGroupRepo struct {
	mu     sync.Mutex
	groups map[uuid.UUID]*models.Group
}

func newMemGroupRepo(groups ...*models.Group) *memGroupRepo {
	r := &memGroupRepo{groups: make(map[uuid.UUID]*models.Group)}
	for _, g := range groups {
		r.groups[g.ID] = g
	}
	return r
}

func (r *memGroupRepo) Create(_ context.Context, group *models.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[group.ID] = group
	return nil
}

func (r *memGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *g
	return &c, nil
}

func (r *memGroupRepo) GetByLineGroupID(_ context.Context, lineGroupID string) (*models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		if g.LineGroupID == lineGroupID {
			c := *g
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memGroupRepo) List(_ context.Context, offset, limit int) ([]*models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Group
	for _, g := range r.groups {
		c := *g
		out = append(out, &c)
	}
	return out, nil
}

func (r *memGroupRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.groups)), nil
}

func (r *memGroupRepo) Update(_ context.Context, group *models.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[group.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *group
	r.groups[group.ID] = &c
	return nil
}

// ───────────────────────── file repository ─────────────────────────

type attachment struct {
	taskID uuid.UUID
	fileID uuid.UUID
	tag    models.FileTag
}

type memFileRepo struct {
	mu          sync.Mutex
	files       map[uuid.UUID]*models.File
	attachments []attachment
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[uuid.UUID]*models.File)}
}

func (r *memFileRepo) Create(_ context.Context, file *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[file.ID] = file
	return nil
}

func (r *memFileRepo) GetByID(_ context.Context, id uuid.UUID) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *f
	return &c, nil
}

func (r *memFileRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.File
	for _, id := range ids {
		if f, ok := r.files[id]; ok {
			c := *f
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memFileRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, id)
	return nil
}

func (r *memFileRepo) Attach(_ context.Context, taskID, fileID uuid.UUID, tag models.FileTag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attachments {
		if a.taskID == taskID && a.fileID == fileID {
			return nil
		}
	}
	r.attachments = append(r.attachments, attachment{taskID: taskID, fileID: fileID, tag: tag})
	return nil
}

func (r *memFileRepo) ListByTask(_ context.Context, taskID uuid.UUID) ([]*models.TaskFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TaskFile
	for _, a := range r.attachments {
		if a.taskID != taskID {
			continue
		}
		tf := &models.TaskFile{TaskID: a.taskID, FileID: a.fileID, Tag: a.tag}
		if f, ok := r.files[a.fileID]; ok {
			tf.File = *f
		}
		out = append(out, tf)
	}
	return out, nil
}

func (r *memFileRepo) DetachAllForTask(_ context.Context, taskID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.attachments[:0]
	for _, a := range r.attachments {
		if a.taskID != taskID {
			kept = append(kept, a)
		}
	}
	r.attachments = kept
	return nil
}

// ───────────────────────── KPI repository ─────────────────────────

type kpiKey struct {
	taskID uuid.UUID
	userID uuid.UUID
}

type memKPIRepo struct {
	mu      sync.Mutex
	records map[kpiKey]*models.KPIRecord
}

func newMemKPIRepo() *memKPIRepo {
	return &memKPIRepo{records: make(map[kpiKey]*models.KPIRecord)}
}

func (r *memKPIRepo) Upsert(_ context.Context, record *models.KPIRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := kpiKey{taskID: record.TaskID, userID: record.UserID}
	if _, exists := r.records[key]; exists {
		return false, nil
	}
	c := *record
	r.records[key] = &c
	return true, nil
}

func (r *memKPIRepo) ExistsForTaskUser(_ context.Context, taskID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[kpiKey{taskID: taskID, userID: userID}]
	return ok, nil
}

func (r *memKPIRepo) ListByTask(_ context.Context, taskID uuid.UUID) ([]*models.KPIRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.KPIRecord
	for key, rec := range r.records {
		if key.taskID == taskID {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memKPIRepo) LeaderboardWeekly(_ context.Context, groupID uuid.UUID, week string) ([]*repositories.LeaderboardEntry, error) {
	return r.leaderboard(groupID, func(rec *models.KPIRecord) bool { return rec.PeriodWeek == week })
}

func (r *memKPIRepo) LeaderboardMonthly(_ context.Context, groupID uuid.UUID, month string) ([]*repositories.LeaderboardEntry, error) {
	return r.leaderboard(groupID, func(rec *models.KPIRecord) bool { return rec.PeriodMonth == month })
}

func (r *memKPIRepo) leaderboard(groupID uuid.UUID, match func(*models.KPIRecord) bool) ([]*repositories.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser := make(map[uuid.UUID]*repositories.LeaderboardEntry)
	for _, rec := range r.records {
		if rec.GroupID != groupID || !match(rec) {
			continue
		}
		entry, ok := byUser[rec.UserID]
		if !ok {
			entry = &repositories.LeaderboardEntry{UserID: rec.UserID}
			byUser[rec.UserID] = entry
		}
		entry.TotalPoints += rec.Points
		entry.TaskCount++
	}
	out := make([]*repositories.LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		out = append(out, e)
	}
	return out, nil
}

// ───────────────────────── recurring repository ─────────────────────────

type memRecurringRepo struct {
	mu        sync.Mutex
	templates map[uuid.UUID]*models.RecurringTask
	order     []uuid.UUID
}

func newMemRecurringRepo() *memRecurringRepo {
	return &memRecurringRepo{templates: make(map[uuid.UUID]*models.RecurringTask)}
}

func (r *memRecurringRepo) Create(_ context.Context, template *models.RecurringTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *template
	r.templates[template.ID] = &c
	r.order = append(r.order, template.ID)
	return nil
}

func (r *memRecurringRepo) GetByID(_ context.Context, id uuid.UUID) (*models.RecurringTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl, ok := r.templates[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *tpl
	return &c, nil
}

func (r *memRecurringRepo) List(_ context.Context, offset, limit int) ([]*models.RecurringTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.RecurringTask
	for _, id := range r.order {
		if tpl, ok := r.templates[id]; ok {
			c := *tpl
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memRecurringRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.templates)), nil
}

func (r *memRecurringRepo) ListByGroup(_ context.Context, groupID uuid.UUID) ([]*models.RecurringTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.RecurringTask
	for _, id := range r.order {
		if tpl, ok := r.templates[id]; ok && tpl.GroupID == groupID {
			c := *tpl
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memRecurringRepo) ListActive(_ context.Context) ([]*models.RecurringTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.RecurringTask
	for _, id := range r.order {
		if tpl, ok := r.templates[id]; ok && tpl.Active {
			c := *tpl
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memRecurringRepo) Update(_ context.Context, template *models.RecurringTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[template.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *template
	r.templates[template.ID] = &c
	return nil
}

func (r *memRecurringRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.templates, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ───────────────────────── stubs ─────────────────────────

type stubFileService struct {
	deletedTasks []uuid.UUID
}

func (s *stubFileService) UploadToTask(context.Context, uuid.UUID, *uuid.UUID, models.FileTag, string, string, int64, io.Reader) (*models.File, error) {
	return nil, nil
}

func (s *stubFileService) Download(context.Context, uuid.UUID) (io.ReadCloser, *models.File, error) {
	return nil, nil, repositories.ErrNotFound
}

func (s *stubFileService) ListTaskFiles(context.Context, uuid.UUID) ([]*models.TaskFile, error) {
	return nil, nil
}

func (s *stubFileService) DeleteTaskAttachments(_ context.Context, taskID uuid.UUID) []error {
	s.deletedTasks = append(s.deletedTasks, taskID)
	return nil
}

type stubMessenger struct {
	profiles map[string]*ports.Profile
	replies  []string
	pushes   []string
}

func (m *stubMessenger) ReplyText(_ context.Context, _, text string) error {
	m.replies = append(m.replies, text)
	return nil
}

func (m *stubMessenger) PushText(_ context.Context, _, text string) error {
	m.pushes = append(m.pushes, text)
	return nil
}

func (m *stubMessenger) GetProfile(_ context.Context, userID string) (*ports.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *stubMessenger) VerifySignature([]byte, string) bool { return true }
