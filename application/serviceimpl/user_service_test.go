package serviceimpl

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linetask/domain/dto"
	"linetask/domain/ports"
)

func newUserEnv() (*memUserRepo, *stubMessenger, *userServiceImpl) {
	repo := newMemUserRepo()
	messenger := &stubMessenger{profiles: map[string]*ports.Profile{}}
	svc := NewUserService(repo, messenger, AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}).(*userServiceImpl)
	return repo, messenger, svc
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newUserEnv()

	user, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:       "somchai@example.com",
		Username:    "somchai",
		Password:    "s3cret-pass",
		DisplayName: "Somchai",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.Password, "password must be stored hashed")

	token, logged, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "somchai@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	require.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestRegisterConflicts(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newUserEnv()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "a@example.com", Username: "a", Password: "password1", DisplayName: "A",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Email: "a@example.com", Username: "b", Password: "password1", DisplayName: "B",
	})
	domainErr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, domainErr.Code)

	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Email: "b@example.com", Username: "a", Password: "password1", DisplayName: "B",
	})
	domainErr, ok = AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, domainErr.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newUserEnv()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "a@example.com", Username: "a", Password: "password1", DisplayName: "A",
	})
	require.NoError(t, err)

	// email ผิดและรหัสผิดต้องตอบเหมือนกัน ไม่บอกใบ้ว่าอันไหนพลาด
	_, _, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password1"})
	wrongEmail, ok := AsDomainError(err)
	require.True(t, ok)

	_, _, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	wrongPass, ok := AsDomainError(err)
	require.True(t, ok)

	assert.Equal(t, CodePermissionDenied, wrongEmail.Code)
	assert.Equal(t, wrongEmail.Code, wrongPass.Code)
	assert.Equal(t, wrongEmail.Message, wrongPass.Message)
}

func TestEnsureChatUser(t *testing.T) {
	ctx := context.Background()
	repo, messenger, svc := newUserEnv()
	messenger.profiles["U123"] = &ports.Profile{
		UserID: "U123", DisplayName: "สมชาย", PictureURL: "https://cdn.example.com/p.jpg",
	}

	user, err := svc.EnsureChatUser(ctx, "U123")
	require.NoError(t, err)
	assert.Equal(t, "สมชาย", user.DisplayName)
	require.NotNil(t, user.LineUserID)
	assert.Equal(t, "U123", *user.LineUserID)
	assert.True(t, user.IsChatUser())

	// เจอซ้ำต้องได้ user เดิม
	again, err := svc.EnsureChatUser(ctx, "U123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	// ดึง profile ไม่ได้ สร้างด้วยชื่อ placeholder
	ghost, err := svc.EnsureChatUser(ctx, "U404")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ghost.DisplayName, "User "))

	stored, err := repo.GetByLineUserID(ctx, "U404")
	require.NoError(t, err)
	assert.Equal(t, ghost.ID, stored.ID)
}
