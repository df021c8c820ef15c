package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"caltracker-api/model"
	"caltracker-api/repository"
)

// ConsumptionService records what users eat.
type ConsumptionService struct {
	consumptionRepo repository.IConsumptionRepository
	userRepo        repository.IUserRepository
	foodRepo        repository.IFoodRepository
	guard           *Guard
}

func NewConsumptionService(
	consumptionRepo repository.IConsumptionRepository,
	userRepo repository.IUserRepository,
	foodRepo repository.IFoodRepository,
	guard *Guard,
) *ConsumptionService {
	return &ConsumptionService{
		consumptionRepo: consumptionRepo,
		userRepo:        userRepo,
		foodRepo:        foodRepo,
		guard:           guard,
	}
}

// CreateConsumption logs an intake for the caller. Logging for another user
// is ErrForbidden; a missing user or food is ErrUserNotFound/ErrFoodNotFound.
func (s *ConsumptionService) CreateConsumption(ctx context.Context, caller *model.User, req model.CreateConsumptionRequest) (*model.Consumption, error) {
	if err := s.guard.AuthorizeOwner(caller, req.UserID); err != nil {
		return nil, err
	}

	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	if _, err := s.userRepo.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.foodRepo.GetFoodByID(ctx, req.FoodID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}

	c := &model.Consumption{
		UserID:        req.UserID,
		FoodID:        req.FoodID,
		QuantityGrams: req.Quantity,
		Date:          date,
	}
	if err := s.consumptionRepo.CreateConsumption(ctx, c); err != nil {
		return nil, fmt.Errorf("could not create consumption: %w", err)
	}
	return c, nil
}
