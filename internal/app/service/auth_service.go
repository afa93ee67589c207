package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"streamvault/internal/app/worker"
	"streamvault/internal/common"
	"streamvault/internal/common/security"
	"streamvault/internal/domain/model"
	"streamvault/internal/domain/repository"
	"streamvault/internal/media"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MediaCheckPublisher enqueues post-registration media verification jobs.
type MediaCheckPublisher interface {
	Publish(ctx context.Context, job worker.MediaCheckJob) error
}

type AuthService struct {
	userRepo  repository.UserRepository
	uploader  media.Uploader
	sessions  *SessionService
	publisher MediaCheckPublisher // may be nil, verification is best-effort
	logger    *slog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	uploader media.Uploader,
	sessions *SessionService,
	publisher MediaCheckPublisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		uploader:  uploader,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
	}
}

// UploadFile is one multipart file part handed in by the transport layer.
type UploadFile struct {
	Name        string
	ContentType string
	Content     io.Reader
}

type RegisterRequest struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *UploadFile
	CoverImage *UploadFile
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Register validates the signup fields, uploads the avatar (required) and
// cover image (optional), and creates the user record. The returned user is
// re-read from storage so the caller sees exactly what was persisted.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	if fullName == "" || email == "" || username == "" || password == "" {
		return nil, fmt.Errorf("all fields are required: %w", common.ErrValidation)
	}

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user already exists: %w", common.ErrConflict)
	}

	if req.Avatar == nil {
		return nil, fmt.Errorf("avatar file is required: %w", common.ErrValidation)
	}

	keyPrefix := slug.Make(username)
	avatarKey := objectKey(keyPrefix, "avatar", req.Avatar.Name)
	avatarURL, err := s.uploader.Upload(ctx, avatarKey, req.Avatar.Content, req.Avatar.ContentType)
	if err != nil || avatarURL == "" {
		// The operation cannot proceed without a hosted avatar.
		return nil, fmt.Errorf("avatar file is required: %w", common.ErrValidation)
	}
	objectKeys := []string{avatarKey}

	coverURL := ""
	if req.CoverImage != nil {
		coverKey := objectKey(keyPrefix, "cover", req.CoverImage.Name)
		coverURL, err = s.uploader.Upload(ctx, coverKey, req.CoverImage.Content, req.CoverImage.ContentType)
		if err != nil {
			s.logger.Warn("cover image upload failed, continuing without it", "username", username, "error", err)
			coverURL = ""
		} else {
			objectKeys = append(objectKeys, coverKey)
		}
	}

	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       strings.ToLower(username),
		Email:          email,
		FullName:       fullName,
		Avatar:         avatarURL,
		CoverImage:     coverURL,
		HashedPassword: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on a unique-constraint race
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("something went wrong while registering the user: %w", common.ErrInternalServer)
	}

	s.publishMediaCheck(ctx, created.ID, objectKeys)

	return created, nil
}

// Login verifies the identifier/password pair and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Username == "" && req.Email == "" {
		return nil, fmt.Errorf("username or email is required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user does not exist: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, fmt.Errorf("invalid user credentials: %w", common.ErrUnauthorized)
	}

	pair, err := s.sessions.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	loggedIn, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user after login: %w", common.ErrInternalServer)
	}

	return &LoginResponse{
		User:         loggedIn,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func objectKey(prefix, kind, fileName string) string {
	return fmt.Sprintf("%s/%s-%s%s", prefix, kind, uuid.NewString(), filepath.Ext(fileName))
}

func (s *AuthService) publishMediaCheck(ctx context.Context, userID string, keys []string) {
	if s.publisher == nil {
		return
	}
	job := worker.MediaCheckJob{UserID: userID, ObjectKeys: keys}
	if err := s.publisher.Publish(ctx, job); err != nil {
		s.logger.Warn("failed to enqueue media check job", "user_id", userID, "error", err)
	}
}
