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

// FoodService manages the shared food catalogue.
type FoodService struct {
	repo repository.IFoodRepository
}

func NewFoodService(repo repository.IFoodRepository) *FoodService {
	return &FoodService{repo: repo}
}

// CreateFood adds a food. ErrFoodExists if the name is taken.
func (s *FoodService) CreateFood(ctx context.Context, req model.CreateFoodRequest) (*model.Food, error) {
	name := strings.TrimSpace(req.Name)

	_, err := s.repo.GetFoodByName(ctx, name)
	if err == nil {
		return nil, ErrFoodExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("could not check food name: %w", err)
	}

	food := &model.Food{
		Name:         name,
		Calories100g: req.Calories100g,
		Protein100g:  req.Protein100g,
		Carbs100g:    req.Carbs100g,
		Fat100g:      req.Fat100g,
	}
	if err := s.repo.CreateFood(ctx, food); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrFoodExists
		}
		return nil, fmt.Errorf("could not create food: %w", err)
	}

	logger.Log.WithField("food_id", food.ID).Info("Food created")
	return food, nil
}

func (s *FoodService) GetFood(ctx context.Context, id int) (*model.Food, error) {
	food, err := s.repo.GetFoodByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return food, nil
}

func (s *FoodService) ListFoods(ctx context.Context) ([]*model.Food, error) {
	foods, err := s.repo.ListFoods(ctx)
	if err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []*model.Food{}
	}
	return foods, nil
}
