package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"caltracker-api/model"
	"caltracker-api/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserHandler(env *testEnv) *UserHandler {
	return NewUserHandler(service.NewUserService(env.users, env.hasher, env.guard))
}

func TestUserHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv(t)
		h := newUserHandler(env)

		env.mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
			WithArgs("new@example.com").
			WillReturnError(sql.ErrNoRows)
		env.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password_hash)`)).
			WithArgs("new@example.com", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(21, time.Now()))

		body := `{"email":"New@Example.com","password":"long-enough"}`
		rr := serve(ErrorHandlingMiddleware(h.Register), httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"id":21,"email":"new@example.com"}`, rr.Body.String())
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("email taken", func(t *testing.T) {
		env := newTestEnv(t)
		h := newUserHandler(env)

		env.mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
			WithArgs("old@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "old@example.com", "x", nil, nil, time.Now()))

		body := `{"email":"old@example.com","password":"long-enough"}`
		rr := serve(ErrorHandlingMiddleware(h.Register), httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("short password", func(t *testing.T) {
		env := newTestEnv(t)
		h := newUserHandler(env)

		body := `{"email":"a@example.com","password":"short"}`
		rr := serve(ErrorHandlingMiddleware(h.Register), httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUserHandler_ChangePassword(t *testing.T) {
	body := `{"old_password":"old-password","new_password":"new-password"}`

	newCaller := func(t *testing.T, env *testEnv) *model.User {
		hash, err := env.hasher.Hash("old-password")
		require.NoError(t, err)
		return &model.User{ID: 5, Email: "d@example.com", PasswordHash: hash}
	}

	t.Run("own account", func(t *testing.T) {
		env := newTestEnv(t)
		h := newUserHandler(env)
		env.expectUserLookup(newCaller(t, env))
		env.mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password_hash = $1 WHERE id = $2`)).
			WithArgs(sqlmock.AnyArg(), 5).
			WillReturnResult(sqlmock.NewResult(0, 1))
		env.mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET refresh_token_hash = $1, refresh_token_expires_at = $2 WHERE id = $3`)).
			WithArgs(nil, nil, 5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := httptest.NewRequest(http.MethodPost, "/change-password?user_id=5", strings.NewReader(body))
		req.Header.Set("Authorization", env.bearer(t, 5))
		rr := serve(env.protected(h.ChangePassword), req)

		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("someone else's account", func(t *testing.T) {
		env := newTestEnv(t)
		h := newUserHandler(env)
		env.expectUserLookup(newCaller(t, env))

		req := httptest.NewRequest(http.MethodPost, "/change-password?user_id=6", strings.NewReader(body))
		req.Header.Set("Authorization", env.bearer(t, 5))
		rr := serve(env.protected(h.ChangePassword), req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("wrong old password", func(t *testing.T) {
		env := newTestEnv(t)
		h := newUserHandler(env)
		env.expectUserLookup(newCaller(t, env))

		wrong := `{"old_password":"not-it","new_password":"new-password"}`
		req := httptest.NewRequest(http.MethodPost, "/change-password?user_id=5", strings.NewReader(wrong))
		req.Header.Set("Authorization", env.bearer(t, 5))
		rr := serve(env.protected(h.ChangePassword), req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}
