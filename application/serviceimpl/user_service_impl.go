package serviceimpl

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"linetask/domain/dto"
	"linetask/domain/models"
	"linetask/domain/ports"
	"linetask/domain/repositories"
	"linetask/domain/services"
	"linetask/pkg/logger"
	"linetask/pkg/utils"
)

// AuthConfig สำหรับออก dashboard token
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type userServiceImpl struct {
	userRepo  repositories.UserRepository
	messenger ports.MessengerPort
	auth      AuthConfig
}

func NewUserService(
	userRepo repositories.UserRepository,
	messenger ports.MessengerPort,
	auth AuthConfig,
) services.UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		messenger: messenger,
		auth:      auth,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, NewConflict("email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, NewConflict("username already taken")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Username:    req.Username,
		Password:    string(hashed),
		DisplayName: req.DisplayName,
		Role:        "user",
		IsActive:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, NewPermissionDenied("invalid credentials")
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, NewPermissionDenied("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, NewPermissionDenied("invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return token, user, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFound("user", userID.String())
		}
		return nil, err
	}
	return user, nil
}

// EnsureChatUser: first sight ของ platform user id สร้าง local user จาก
// profile; ดึง profile ไม่ได้ก็สร้างด้วยชื่อ placeholder ไปก่อน
func (s *userServiceImpl) EnsureChatUser(ctx context.Context, lineUserID string) (*models.User, error) {
	if lineUserID == "" {
		return nil, NewValidationError("userId", "must not be empty")
	}

	user, err := s.userRepo.GetByLineUserID(ctx, lineUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	displayName := "User " + utils.GenerateRandomString(4)
	pictureURL := ""
	if s.messenger != nil {
		if profile, perr := s.messenger.GetProfile(ctx, lineUserID); perr == nil {
			displayName = profile.DisplayName
			pictureURL = profile.PictureURL
		} else {
			logger.WarnContext(ctx, "failed to fetch chat profile",
				"line_user_id", lineUserID, "error", perr)
		}
	}

	user = &models.User{
		ID:          uuid.New(),
		LineUserID:  &lineUserID,
		DisplayName: displayName,
		PictureURL:  pictureURL,
		Role:        "user",
		IsActive:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "chat user registered", "user_id", user.ID)
	return user, nil
}

func (s *userServiceImpl) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := utils.JWTClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.auth.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.auth.JWTSecret))
}
