package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"streamvault/internal/common"
	"streamvault/internal/common/security"
	"streamvault/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(repo *fakeUserRepo, uploader *fakeUploader, publisher *fakePublisher) *AuthService {
	sessions := NewSessionService(repo, testLogger())
	var pub MediaCheckPublisher
	if publisher != nil {
		pub = publisher
	}
	return NewAuthService(repo, uploader, sessions, pub, testLogger())
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FullName: "A B",
		Email:    "a@b.com",
		Username: "ab",
		Password: "secret",
		Avatar:   &UploadFile{Name: "avatar.png", ContentType: "image/png", Content: strings.NewReader("png-bytes")},
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, password string) *model.User {
	t.Helper()
	hashed, err := security.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{
		ID:             "11111111-1111-1111-1111-111111111111",
		Username:       "ab",
		Email:          "a@b.com",
		FullName:       "A B",
		Avatar:         "http://media.local/test-bucket/ab/avatar.png",
		HashedPassword: hashed,
	}
	repo.mustAdd(t, user)
	return user
}

func TestRegister_BlankFieldsRejected(t *testing.T) {
	setupTestConfig(t)

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"empty full name", func(r *RegisterRequest) { r.FullName = "" }},
		{"whitespace full name", func(r *RegisterRequest) { r.FullName = "   " }},
		{"empty email", func(r *RegisterRequest) { r.Email = "" }},
		{"empty username", func(r *RegisterRequest) { r.Username = "\t" }},
		{"empty password", func(r *RegisterRequest) { r.Password = "  " }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := newTestAuthService(repo, newFakeUploader(), nil)

			req := validRegisterRequest()
			tc.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrValidation))
			assert.Zero(t, repo.createCalls, "no record should be created")
		})
	}
}

func TestRegister_DuplicateUserRejected(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	seedUser(t, repo, "secret")
	svc := newTestAuthService(repo, newFakeUploader(), nil)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
	assert.Len(t, repo.users, 1, "record count must be unchanged")
}

func TestRegister_AvatarRequired(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, newFakeUploader(), nil)

	req := validRegisterRequest()
	req.Avatar = nil

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.Zero(t, repo.createCalls)
}

func TestRegister_AvatarUploadFailureRejected(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	uploader := newFakeUploader()
	uploader.err = errors.New("media store unreachable")
	svc := newTestAuthService(repo, uploader, nil)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.Zero(t, repo.createCalls)
}

func TestRegister_Success(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	uploader := newFakeUploader()
	publisher := &fakePublisher{}
	svc := newTestAuthService(repo, uploader, publisher)

	req := validRegisterRequest()
	req.Username = "AB" // must be stored lower-cased

	user, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "ab", user.Username)
	assert.Equal(t, "A B", user.FullName)
	assert.NotEmpty(t, user.Avatar)
	assert.Empty(t, user.CoverImage, "cover image defaults to empty")
	assert.Empty(t, user.RefreshToken)
	assert.NotEqual(t, "secret", user.HashedPassword, "password must be stored hashed")
	assert.True(t, security.CheckPasswordHash("secret", user.HashedPassword))

	require.Len(t, publisher.jobs, 1)
	assert.Equal(t, user.ID, publisher.jobs[0].UserID)
	assert.Len(t, publisher.jobs[0].ObjectKeys, 1)
}

func TestRegister_WithCoverImage(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	uploader := newFakeUploader()
	publisher := &fakePublisher{}
	svc := newTestAuthService(repo, uploader, publisher)

	req := validRegisterRequest()
	req.CoverImage = &UploadFile{Name: "cover.jpg", ContentType: "image/jpeg", Content: strings.NewReader("jpg-bytes")}

	user, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, user.CoverImage)
	assert.Len(t, uploader.uploads, 2)

	require.Len(t, publisher.jobs, 1)
	assert.Len(t, publisher.jobs[0].ObjectKeys, 2)
}

func TestLogin_IdentifierRequired(t *testing.T) {
	setupTestConfig(t)
	svc := newTestAuthService(newFakeUserRepo(), newFakeUploader(), nil)

	_, err := svc.Login(context.Background(), LoginRequest{Password: "secret"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestLogin_UnknownUser(t *testing.T) {
	setupTestConfig(t)
	svc := newTestAuthService(newFakeUserRepo(), newFakeUploader(), nil)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "secret"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestLogin_WrongPassword(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "secret")
	repo.users[user.ID].RefreshToken = "previously-issued"
	svc := newTestAuthService(repo, newFakeUploader(), nil)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ab", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.Equal(t, "previously-issued", repo.users[user.ID].RefreshToken, "stored refresh token must be untouched")
}

func TestLogin_Success(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "secret")
	svc := newTestAuthService(repo, newFakeUploader(), nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "ab", Password: "secret"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "ab", resp.User.Username)
	assert.Equal(t, resp.RefreshToken, repo.users[user.ID].RefreshToken,
		"stored refresh token must equal the returned one")
}

func TestLogin_ByEmail(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	seedUser(t, repo, "secret")
	svc := newTestAuthService(repo, newFakeUploader(), nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "ab", resp.User.Username)
}

func TestLogin_ReloginOverwritesRefreshToken(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "secret")
	svc := newTestAuthService(repo, newFakeUploader(), nil)

	first, err := svc.Login(context.Background(), LoginRequest{Username: "ab", Password: "secret"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), LoginRequest{Username: "ab", Password: "secret"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, second.RefreshToken, repo.users[user.ID].RefreshToken)
}
