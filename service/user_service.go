package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"caltracker-api/logger"
	"caltracker-api/model"
	"caltracker-api/repository"
)

// UserService handles registration and password changes.
type UserService struct {
	userRepo repository.IUserRepository
	hasher   PasswordHasher
	guard    *Guard
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository, hasher PasswordHasher, guard *Guard) *UserService {
	return &UserService{userRepo: userRepo, hasher: hasher, guard: guard}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user. ErrEmailTaken if the email is already in use.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	email := NormalizeEmail(req.Email)
	log := logger.Log.WithField("email", email)

	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		log.Info("Registration rejected, email already registered")
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("could not check email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Email: email, PasswordHash: hash}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// ChangePassword replaces the caller's password after checking the old one
// and revokes the refresh token issued under the old password.
func (s *UserService) ChangePassword(ctx context.Context, caller *model.User, userID int, req model.ChangePasswordRequest) error {
	if err := s.guard.AuthorizeOwner(caller, userID); err != nil {
		return err
	}
	if !s.hasher.Verify(req.OldPassword, caller.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("could not update password: %w", err)
	}
	if err := s.userRepo.SetRefreshToken(ctx, userID, nil, nil); err != nil {
		return fmt.Errorf("could not revoke refresh token: %w", err)
	}

	logger.Log.WithField("user_id", userID).Info("Password changed")
	return nil
}
