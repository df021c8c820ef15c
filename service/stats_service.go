// file: service/stats_service.go

package service

import (
	"context"
	"fmt"
	"time"

	"caltracker-api/logger"
	"caltracker-api/model"
	"caltracker-api/repository"

	"github.com/sirupsen/logrus"
)

// DateRange is a span of calendar days, inclusive at both ends. Both bounds
// are UTC midnights.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Day truncates t to the UTC midnight of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func DayRange(day time.Time) DateRange {
	d := Day(day)
	return DateRange{Start: d, End: d}
}

// WeekRange covers the 7 days starting at start.
func WeekRange(start time.Time) DateRange {
	d := Day(start)
	return DateRange{Start: d, End: d.AddDate(0, 0, 6)}
}

// MonthRange covers the 30 days starting at start. It is a fixed window and
// does not follow calendar months.
func MonthRange(start time.Time) DateRange {
	d := Day(start)
	return DateRange{Start: d, End: d.AddDate(0, 0, 29)}
}

// Contains reports whether t's calendar date lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// StatsService aggregates consumptions into nutrition totals.
type StatsService struct {
	consumptionRepo repository.IConsumptionRepository
	foodRepo        repository.IFoodRepository
	guard           *Guard
}

func NewStatsService(consumptionRepo repository.IConsumptionRepository, foodRepo repository.IFoodRepository, guard *Guard) *StatsService {
	return &StatsService{
		consumptionRepo: consumptionRepo,
		foodRepo:        foodRepo,
		guard:           guard,
	}
}

// ComputeTotals sums the nutrients of every consumption the user logged in
// rng. Each food's per-100g values are scaled by quantity/100. Foods are
// loaded in one batch. No consumptions means zero totals.
func (s *StatsService) ComputeTotals(ctx context.Context, userID int, rng DateRange) (model.NutritionTotals, error) {
	var totals model.NutritionTotals

	consumptions, err := s.consumptionRepo.GetConsumptionsByUserAndRange(ctx, userID, rng.Start, rng.End)
	if err != nil {
		return totals, fmt.Errorf("could not load consumptions: %w", err)
	}
	if len(consumptions) == 0 {
		return totals, nil
	}

	seen := make(map[int]struct{}, len(consumptions))
	ids := make([]int, 0, len(consumptions))
	for _, c := range consumptions {
		if _, ok := seen[c.FoodID]; !ok {
			seen[c.FoodID] = struct{}{}
			ids = append(ids, c.FoodID)
		}
	}

	foods, err := s.foodRepo.GetFoodsByIDs(ctx, ids)
	if err != nil {
		return totals, fmt.Errorf("could not load foods: %w", err)
	}
	byID := make(map[int]*model.Food, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
	}

	for _, c := range consumptions {
		if !rng.Contains(c.Date) {
			continue
		}
		food, ok := byID[c.FoodID]
		if !ok {
			return model.NutritionTotals{}, fmt.Errorf("consumption %d references food %d: %w", c.ID, c.FoodID, ErrFoodNotFound)
		}
		factor := c.QuantityGrams / 100
		totals.Calories += food.Calories100g * factor
		totals.Protein += food.Protein100g * factor
		totals.Carbs += food.Carbs100g * factor
		totals.Fat += food.Fat100g * factor
	}
	return totals, nil
}

func (s *StatsService) DailyStats(ctx context.Context, caller *model.User, userID int, day time.Time) (*model.StatsReport, error) {
	return s.report(ctx, caller, userID, model.PeriodDay, DayRange(day))
}

func (s *StatsService) WeeklyStats(ctx context.Context, caller *model.User, userID int, start time.Time) (*model.StatsReport, error) {
	return s.report(ctx, caller, userID, model.PeriodWeek, WeekRange(start))
}

func (s *StatsService) MonthlyStats(ctx context.Context, caller *model.User, userID int, start time.Time) (*model.StatsReport, error) {
	return s.report(ctx, caller, userID, model.PeriodMonth, MonthRange(start))
}

func (s *StatsService) report(ctx context.Context, caller *model.User, userID int, period model.Period, rng DateRange) (*model.StatsReport, error) {
	if err := s.guard.AuthorizeOwner(caller, userID); err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"period":  period,
		"start":   rng.Start.Format(model.DateLayout),
		"end":     rng.End.Format(model.DateLayout),
	})
	log.Info("Computing nutrition stats")

	totals, err := s.ComputeTotals(ctx, userID, rng)
	if err != nil {
		log.WithError(err).Error("Failed to compute nutrition stats")
		return nil, err
	}

	return &model.StatsReport{
		UserID:          userID,
		Period:          period,
		Start:           rng.Start,
		End:             rng.End,
		NutritionTotals: totals,
	}, nil
}
