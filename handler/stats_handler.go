package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"caltracker-api/common"
	"caltracker-api/model"
	"caltracker-api/service"
)

type StatsHandler struct {
	service *service.StatsService
}

func NewStatsHandler(s *service.StatsService) *StatsHandler {
	return &StatsHandler{service: s}
}

type statsFunc func(ctx context.Context, caller *model.User, userID int, day time.Time) (*model.StatsReport, error)

// DailyStats godoc
// @Summary      Nutrition totals for one day
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query  int     true  "User ID"
// @Param        day      query  string  true  "Day (YYYY-MM-DD)"
// @Success      200  {object}  model.StatsReport
// @Failure      400  {object}  common.AppError "Invalid query parameters"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      403  {object}  common.AppError "Forbidden"
// @Router       /stats/day [get]
func (h *StatsHandler) DailyStats(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.serve(w, r, "day", h.service.DailyStats)
}

// WeeklyStats godoc
// @Summary      Nutrition totals for the 7 days starting at start_day
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        user_id    query  int     true  "User ID"
// @Param        start_day  query  string  true  "First day (YYYY-MM-DD)"
// @Success      200  {object}  model.StatsReport
// @Failure      400  {object}  common.AppError "Invalid query parameters"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      403  {object}  common.AppError "Forbidden"
// @Router       /stats/week [get]
func (h *StatsHandler) WeeklyStats(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.serve(w, r, "start_day", h.service.WeeklyStats)
}

// MonthlyStats godoc
// @Summary      Nutrition totals for the 30 days starting at start_day
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        user_id    query  int     true  "User ID"
// @Param        start_day  query  string  true  "First day (YYYY-MM-DD)"
// @Success      200  {object}  model.StatsReport
// @Failure      400  {object}  common.AppError "Invalid query parameters"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      403  {object}  common.AppError "Forbidden"
// @Router       /stats/month [get]
func (h *StatsHandler) MonthlyStats(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.serve(w, r, "start_day", h.service.MonthlyStats)
}

func (h *StatsHandler) serve(w http.ResponseWriter, r *http.Request, dayParam string, compute statsFunc) *common.AppError {
	caller, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}

	query := r.URL.Query()
	userID, err := strconv.Atoi(query.Get("user_id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid or missing user_id", err)
	}
	day, err := time.Parse(model.DateLayout, query.Get(dayParam))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid or missing "+dayParam+", expected YYYY-MM-DD", err)
	}

	report, err := compute(r.Context(), caller, userID, day)
	if err != nil {
		return serviceError(err, "Could not compute stats")
	}

	common.WriteJSON(w, http.StatusOK, report)
	return nil
}
