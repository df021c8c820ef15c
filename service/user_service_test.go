// service/user_service_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"caltracker-api/model"
	"caltracker-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService(repo *mockUserRepo) (*UserService, PasswordHasher) {
	hasher := NewArgon2Hasher(testArgon2)
	guard := NewGuard(newTestTokenService(), repo)
	return NewUserService(repo, hasher, guard), hasher
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	req := model.RegisterRequest{Email: "New@Example.com", Password: "password123"}

	t.Run("success", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, hasher := newUserService(repo)

		repo.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, sql.ErrNoRows).Once()
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@example.com" && hasher.Verify("password123", u.PasswordHash)
		})).Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = 10 }).Return(nil).Once()

		user, err := svc.Register(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, 10, user.ID)
		assert.Equal(t, "new@example.com", user.Email)
		repo.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newUserService(repo)
		repo.On("GetUserByEmail", mock.Anything, "new@example.com").Return(&model.User{ID: 1}, nil).Once()

		_, err := svc.Register(ctx, req)

		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.ErrorIs(t, err, ErrConflict)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("lost race on unique constraint", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newUserService(repo)
		repo.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, sql.ErrNoRows).Once()
		repo.On("CreateUser", mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: users_email_key", repository.ErrDuplicateKey)).Once()

		_, err := svc.Register(ctx, req)

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newUserService(repo)
		dbErr := errors.New("database error")
		repo.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, dbErr).Once()

		_, err := svc.Register(ctx, req)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*UserService, *mockUserRepo, PasswordHasher, *model.User) {
		repo := new(mockUserRepo)
		svc, hasher := newUserService(repo)
		hashed, err := hasher.Hash("oldpassword")
		require.NoError(t, err)
		return svc, repo, hasher, &model.User{ID: 1, PasswordHash: hashed}
	}

	t.Run("success", func(t *testing.T) {
		svc, repo, hasher, caller := setup(t)
		repo.On("UpdatePassword", mock.Anything, 1, mock.MatchedBy(func(h string) bool {
			return hasher.Verify("newpassword", h)
		})).Return(nil).Once()
		repo.On("SetRefreshToken", mock.Anything, 1, (*string)(nil), (*time.Time)(nil)).Return(nil).Once()

		err := svc.ChangePassword(ctx, caller, 1, model.ChangePasswordRequest{OldPassword: "oldpassword", NewPassword: "newpassword"})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("refresh token revocation fails", func(t *testing.T) {
		svc, repo, _, caller := setup(t)
		repo.On("UpdatePassword", mock.Anything, 1, mock.Anything).Return(nil).Once()
		repo.On("SetRefreshToken", mock.Anything, 1, (*string)(nil), (*time.Time)(nil)).Return(errors.New("connection reset")).Once()

		err := svc.ChangePassword(ctx, caller, 1, model.ChangePasswordRequest{OldPassword: "oldpassword", NewPassword: "newpassword"})

		assert.Error(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("another user", func(t *testing.T) {
		svc, repo, _, caller := setup(t)

		err := svc.ChangePassword(ctx, caller, 2, model.ChangePasswordRequest{OldPassword: "oldpassword", NewPassword: "newpassword"})

		assert.Equal(t, ErrForbidden, err)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong old password", func(t *testing.T) {
		svc, repo, _, caller := setup(t)

		err := svc.ChangePassword(ctx, caller, 1, model.ChangePasswordRequest{OldPassword: "guess", NewPassword: "newpassword"})

		assert.Equal(t, ErrInvalidCredentials, err)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("user vanished", func(t *testing.T) {
		svc, repo, _, caller := setup(t)
		repo.On("UpdatePassword", mock.Anything, 1, mock.Anything).Return(sql.ErrNoRows).Once()

		err := svc.ChangePassword(ctx, caller, 1, model.ChangePasswordRequest{OldPassword: "oldpassword", NewPassword: "newpassword"})

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
