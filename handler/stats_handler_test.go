package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"caltracker-api/model"
	"caltracker-api/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var foodColumns = []string{"id", "name", "calories_100g", "protein_100g", "carbs_100g", "fat_100g", "created_at"}

func newStatsHandler(env *testEnv) *StatsHandler {
	return NewStatsHandler(service.NewStatsService(env.consumptions, env.foods, env.guard))
}

func TestStatsHandler_DailyStats(t *testing.T) {
	caller := &model.User{ID: 1, Email: "a@example.com", PasswordHash: "x"}
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("totals for the caller", func(t *testing.T) {
		env := newTestEnv(t)
		h := newStatsHandler(env)

		env.expectUserLookup(caller)
		env.mock.ExpectQuery(regexp.QuoteMeta(`FROM consumptions`)).
			WithArgs(1, "2024-01-05", "2024-01-05").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "food_id", "quantity_grams", "date", "created_at"}).
				AddRow(1, 1, 10, 150.0, day, time.Now()).
				AddRow(2, 1, 11, 50.0, day, time.Now()))
		env.mock.ExpectQuery(regexp.QuoteMeta(`FROM foods WHERE id = ANY($1)`)).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(foodColumns).
				AddRow(10, "Rice", 130.0, 2.0, 28.0, 0.0, time.Now()).
				AddRow(11, "Egg", 150.0, 12.0, 2.0, 10.0, time.Now()))

		req := httptest.NewRequest(http.MethodGet, "/stats/day?user_id=1&day=2024-01-05", nil)
		req.Header.Set("Authorization", env.bearer(t, 1))
		rr := serve(env.protected(h.DailyStats), req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "day", body["period"])
		assert.Equal(t, "2024-01-05", body["start"])
		assert.Equal(t, "2024-01-05", body["end"])
		assert.InDelta(t, 270.0, body["calories"], 1e-9)
		assert.InDelta(t, 9.0, body["protein"], 1e-9)
		assert.InDelta(t, 43.0, body["carbs"], 1e-9)
		assert.InDelta(t, 5.0, body["fat"], 1e-9)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("no consumptions gives zero totals", func(t *testing.T) {
		env := newTestEnv(t)
		h := newStatsHandler(env)

		env.expectUserLookup(caller)
		env.mock.ExpectQuery(regexp.QuoteMeta(`FROM consumptions`)).
			WithArgs(1, "2024-01-05", "2024-01-05").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "food_id", "quantity_grams", "date", "created_at"}))

		req := httptest.NewRequest(http.MethodGet, "/stats/day?user_id=1&day=2024-01-05", nil)
		req.Header.Set("Authorization", env.bearer(t, 1))
		rr := serve(env.protected(h.DailyStats), req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t,
			`{"user_id":1,"period":"day","start":"2024-01-05","end":"2024-01-05","calories":0,"protein":0,"carbs":0,"fat":0}`,
			rr.Body.String())
	})

	t.Run("another user's stats are forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		h := newStatsHandler(env)
		env.expectUserLookup(caller)

		req := httptest.NewRequest(http.MethodGet, "/stats/day?user_id=2&day=2024-01-05", nil)
		req.Header.Set("Authorization", env.bearer(t, 1))
		rr := serve(env.protected(h.DailyStats), req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.NoError(t, env.mock.ExpectationsWereMet(), "no consumption query after a denied check")
	})

	t.Run("bad query parameters", func(t *testing.T) {
		for _, target := range []string{
			"/stats/day?day=2024-01-05",
			"/stats/day?user_id=abc&day=2024-01-05",
			"/stats/day?user_id=1",
			"/stats/day?user_id=1&day=05-01-2024",
		} {
			env := newTestEnv(t)
			h := newStatsHandler(env)
			env.expectUserLookup(caller)

			req := httptest.NewRequest(http.MethodGet, target, nil)
			req.Header.Set("Authorization", env.bearer(t, 1))
			rr := serve(env.protected(h.DailyStats), req)

			assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		}
	})
}

func TestStatsHandler_WindowBounds(t *testing.T) {
	caller := &model.User{ID: 1, Email: "a@example.com", PasswordHash: "x"}

	cases := []struct {
		name   string
		target string
		end    time.Time
		period string
	}{
		{"week", "/stats/week?user_id=1&start_day=2024-02-25", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "week"},
		{"month", "/stats/month?user_id=1&start_day=2024-02-25", time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), "month"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			h := newStatsHandler(env)
			handler := env.protected(h.WeeklyStats)
			if tc.period == "month" {
				handler = env.protected(h.MonthlyStats)
			}

			env.expectUserLookup(caller)
			env.mock.ExpectQuery(regexp.QuoteMeta(`FROM consumptions`)).
				WithArgs(1, "2024-02-25", tc.end.Format(model.DateLayout)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "food_id", "quantity_grams", "date", "created_at"}))

			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			req.Header.Set("Authorization", env.bearer(t, 1))
			rr := serve(handler, req)

			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.period, body["period"])
			assert.Equal(t, tc.end.Format(model.DateLayout), body["end"])
			assert.NoError(t, env.mock.ExpectationsWereMet())
		})
	}
}
