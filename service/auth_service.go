package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"caltracker-api/logger"
	"caltracker-api/model"
	"caltracker-api/repository"
)

// AuthService handles login and the refresh token lifecycle.
type AuthService struct {
	userRepo repository.IUserRepository
	hasher   PasswordHasher
	tokens   *TokenService
}

func NewAuthService(userRepo repository.IUserRepository, hasher PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, hasher: hasher, tokens: tokens}
}

// Login checks the credentials and issues a token pair. An unknown email and
// a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	email = NormalizeEmail(email)
	log := logger.Log.WithField("email", email)

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("Login failed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("could not load user: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		log.Info("Login failed")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	log.WithField("user_id", user.ID).Info("User logged in")
	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair. The old refresh
// token stops working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	user, err := s.userRepo.GetUserByRefreshTokenHash(ctx, HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("could not load user: %w", err)
	}
	if !s.tokens.IsRefreshValid(user.RefreshTokenExpiresAt) {
		logger.Log.WithField("user_id", user.ID).Info("Expired refresh token presented")
		return nil, ErrUnauthenticated
	}
	return s.issuePair(ctx, user.ID)
}

// Logout revokes the user's refresh token. Access tokens already issued stay
// valid until they expire.
func (s *AuthService) Logout(ctx context.Context, user *model.User) error {
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, nil, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("could not clear refresh token: %w", err)
	}
	logger.Log.WithField("user_id", user.ID).Info("User logged out")
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, userID int) (*model.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, expiresAt, err := s.tokens.IssueRefreshToken()
	if err != nil {
		return nil, err
	}

	digest := HashRefreshToken(refresh)
	if err := s.userRepo.SetRefreshToken(ctx, userID, &digest, &expiresAt); err != nil {
		return nil, fmt.Errorf("could not store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
