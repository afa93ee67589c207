package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"streamvault/internal/common"
	"streamvault/internal/common/security"
	"streamvault/internal/domain/model"
	"streamvault/internal/domain/repository"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SessionService issues access/refresh credential pairs and keeps the stored
// refresh token on the user record in sync with what was handed out. A user
// holds at most one live refresh token; issuing a new pair overwrites the old
// one, which ends any other device's session.
type SessionService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewSessionService(userRepo repository.UserRepository, logger *slog.Logger) *SessionService {
	return &SessionService{userRepo: userRepo, logger: logger}
}

// IssueTokenPair mints both tokens for an already-verified user id and
// persists the refresh token. Callers see a single collapsed failure; the
// underlying cause is logged, not returned.
func (s *SessionService) IssueTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.issueFailure(userID, err)
	}

	accessToken, err := security.GenerateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, s.issueFailure(userID, err)
	}

	refreshToken, err := security.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, s.issueFailure(userID, err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, s.issueFailure(userID, err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh validates a presented refresh token against the stored one and,
// on success, rotates the pair.
func (s *SessionService) Refresh(ctx context.Context, presented string) (*model.User, *TokenPair, error) {
	if presented == "" {
		return nil, nil, fmt.Errorf("refresh token is required: %w", common.ErrUnauthorized)
	}

	userID, err := security.ParseRefreshToken(presented)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid refresh token: %w", common.ErrUnauthorized)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, fmt.Errorf("invalid refresh token: %w", common.ErrUnauthorized)
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.RefreshToken == "" || user.RefreshToken != presented {
		return nil, nil, fmt.Errorf("refresh token is expired or used: %w", common.ErrUnauthorized)
	}

	pair, err := s.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout clears the stored refresh token. Clearing an already-empty token is
// a no-op, so repeated logouts succeed.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *SessionService) issueFailure(userID string, err error) error {
	s.logger.Error("token pair issuance failed", "user_id", userID, "error", err)
	return fmt.Errorf("something went wrong while generating refresh and access tokens: %w", common.ErrInternalServer)
}
