package serviceimpl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linetask/domain/models"
)

// memStorage เก็บ object ใน map ใช้แทน local/S3 adapter ใน test
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	deletedPrefixes []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (s *memStorage) UploadFile(file io.Reader, path string, _ string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return "http://storage.local/" + path, nil
}

func (s *memStorage) DeleteFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *memStorage) DeleteFolder(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedPrefixes = append(s.deletedPrefixes, prefix)
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
		}
	}
	return nil
}

func (s *memStorage) GetFileURL(path string) string { return "http://storage.local/" + path }

func (s *memStorage) GetFileContent(path string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, "", errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "application/octet-stream", nil
}

func (s *memStorage) GetProviderName() string { return "memory" }

type fileEnv struct {
	fileRepo *memFileRepo
	taskRepo *memTaskRepo
	storage  *memStorage
	svc      *fileServiceImpl
	task     *models.Task
}

func newFileEnv(t *testing.T) *fileEnv {
	t.Helper()
	env := &fileEnv{
		fileRepo: newMemFileRepo(),
		taskRepo: newMemTaskRepo(),
		storage:  newMemStorage(),
	}
	env.svc = NewFileService(env.fileRepo, env.taskRepo, env.storage).(*fileServiceImpl)
	env.task = &models.Task{
		ID:        uuid.New(),
		GroupID:   uuid.New(),
		Title:     "with attachments",
		Status:    models.StatusInProgress,
		DueTime:   time.Now().Add(24 * time.Hour),
		CreatedBy: uuid.New(),
		Workflow:  models.NewWorkflow(),
	}
	require.NoError(t, env.taskRepo.Create(context.Background(), env.task))
	return env
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	env := newFileEnv(t)
	ctx := context.Background()

	content := []byte("quarterly numbers")
	file, err := env.svc.UploadToTask(ctx, env.task.ID, nil, models.FileTagSubmission,
		"รายงาน Q3.pdf", "application/pdf", int64(len(content)), bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "รายงาน Q3.pdf", file.FileName)
	assert.Contains(t, file.StorageKey, "attachments/"+env.task.ID.String()+"/")
	// ชื่อไฟล์ภาษาไทยต้องถูก slug ใน key ไม่ใช่หายไปเฉย ๆ
	assert.NotContains(t, file.StorageKey, "รายงาน")
	assert.True(t, strings.HasSuffix(file.StorageKey, ".pdf"))

	reader, got, err := env.svc.Download(ctx, file.ID)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, file.ID, got.ID)

	files, err := env.svc.ListTaskFiles(ctx, env.task.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, models.FileTagSubmission, files[0].Tag)
}

func TestUploadValidation(t *testing.T) {
	env := newFileEnv(t)
	ctx := context.Background()

	_, err := env.svc.UploadToTask(ctx, env.task.ID, nil, models.FileTag("avatar"),
		"a.png", "image/png", 10, bytes.NewReader([]byte("x")))
	domainErr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, domainErr.Code)

	_, err = env.svc.UploadToTask(ctx, env.task.ID, nil, models.FileTagInitial,
		"big.zip", "application/zip", MaxFileSize+1, bytes.NewReader(nil))
	domainErr, ok = AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, domainErr.Code)

	_, err = env.svc.UploadToTask(ctx, uuid.New(), nil, models.FileTagInitial,
		"a.pdf", "application/pdf", 10, bytes.NewReader([]byte("x")))
	domainErr, ok = AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, domainErr.Code)
}

func TestUploadToTerminalTask(t *testing.T) {
	env := newFileEnv(t)
	ctx := context.Background()

	stored, err := env.taskRepo.GetByID(ctx, env.task.ID)
	require.NoError(t, err)
	require.NoError(t, stored.Transition(models.StatusCompleted))
	require.NoError(t, env.taskRepo.SaveWorkflow(ctx, stored))

	_, err = env.svc.UploadToTask(ctx, env.task.ID, nil, models.FileTagSubmission,
		"late.pdf", "application/pdf", 10, bytes.NewReader([]byte("x")))
	domainErr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, domainErr.Code)
}

func TestDeleteTaskAttachments(t *testing.T) {
	env := newFileEnv(t)
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.png"} {
		_, err := env.svc.UploadToTask(ctx, env.task.ID, nil, models.FileTagSubmission,
			name, "application/octet-stream", 4, bytes.NewReader([]byte("data")))
		require.NoError(t, err)
	}

	errs := env.svc.DeleteTaskAttachments(ctx, env.task.ID)
	assert.Empty(t, errs)

	files, err := env.svc.ListTaskFiles(ctx, env.task.ID)
	require.NoError(t, err)
	assert.Empty(t, files)

	// object หมดจาก storage และ prefix ถูกกวาด
	assert.Empty(t, env.storage.objects)
	assert.Contains(t, env.storage.deletedPrefixes, "attachments/"+env.task.ID.String()+"/")
}
