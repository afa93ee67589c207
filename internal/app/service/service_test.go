package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"streamvault/internal/app/worker"
	"streamvault/internal/common"
	"streamvault/internal/common/security"
	"streamvault/internal/domain/model"
	"streamvault/internal/platform/config"
)

// --- shared test helpers and fakes ---

func setupTestConfig(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		AccessTokenKey:  []byte("test-access-key"),
		AccessTokenExp:  time.Hour,
		RefreshTokenKey: []byte("test-refresh-key"),
		RefreshTokenExp: 24 * time.Hour,
	}
	security.InitJWT()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	users map[string]*model.User // keyed by id

	createErr error
	findErr   error
	updateErr error

	createCalls int
	updateCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) UpdateRefreshToken(ctx context.Context, id, refreshToken string) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.RefreshToken = refreshToken
	return nil
}

func (f *fakeUserRepo) mustAdd(t *testing.T, user *model.User) {
	t.Helper()
	if err := f.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	f.createCalls = 0
}

type fakeUploader struct {
	uploads map[string]string // object key -> content type
	err     error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: map[string]string{}}
}

func (f *fakeUploader) Upload(ctx context.Context, objectKey string, content io.Reader, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads[objectKey] = contentType
	return "http://media.local/test-bucket/" + objectKey, nil
}

func (f *fakeUploader) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, ok := f.uploads[objectKey]
	return ok, nil
}

type fakePublisher struct {
	jobs []worker.MediaCheckJob
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, job worker.MediaCheckJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}
