// handler/main_test.go
package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"
	"time"

	"caltracker-api/common"
	"caltracker-api/config"
	"caltracker-api/logger"
	"caltracker-api/model"
	"caltracker-api/repository"
	"caltracker-api/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type staticKey []byte

func (k staticKey) SigningKey() []byte { return k }

var testArgon2 = config.Argon2Config{
	MemoryKiB:   1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

var userColumns = []string{"id", "email", "password_hash", "refresh_token_hash", "refresh_token_expires_at", "created_at"}

// testEnv wires the real repositories and services over a sqlmock database.
type testEnv struct {
	mock         sqlmock.Sqlmock
	tokens       *service.TokenService
	guard        *service.Guard
	hasher       *service.Argon2Hasher
	users        *repository.UserRepository
	foods        *repository.FoodRepository
	consumptions *repository.ConsumptionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		mock:         mock,
		tokens:       service.NewTokenService(staticKey("handler-test-secret"), time.Hour, 0),
		hasher:       service.NewArgon2Hasher(testArgon2),
		users:        repository.NewUserRepository(db),
		foods:        repository.NewFoodRepository(db),
		consumptions: repository.NewConsumptionRepository(db),
	}
	env.guard = service.NewGuard(env.tokens, env.users)
	return env
}

func (e *testEnv) bearer(t *testing.T, userID int) string {
	token, err := e.tokens.IssueAccessToken(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

// expectUserLookup queues the query AuthMiddleware runs to resolve a token.
func (e *testEnv) expectUserLookup(user *model.User) {
	e.mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(user.ID).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(user.ID, user.Email, user.PasswordHash, nil, nil, time.Now()))
}

func (e *testEnv) expectMissingUser(id int) {
	e.mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)
}

// protected mirrors how the router mounts authenticated routes.
func (e *testEnv) protected(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
	return AuthMiddleware(e.guard)(ErrorHandlingMiddleware(h))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
