package handler

import (
	"net/http"
	"strconv"

	"caltracker-api/common"
	"caltracker-api/model"
	"caltracker-api/service"
)

type FoodHandler struct {
	service *service.FoodService
}

func NewFoodHandler(s *service.FoodService) *FoodHandler {
	return &FoodHandler{service: s}
}

// CreateFood godoc
// @Summary      Add a food to the catalog
// @Description  Nutrient values are per 100 grams. Food names are unique.
// @Tags         foods
// @Accept       json
// @Produce      json
// @Param        food body model.CreateFoodRequest true "Food definition"
// @Success      201  {object}  model.Food
// @Failure      400  {object}  common.AppError "Invalid request body"
// @Failure      409  {object}  common.AppError "Food already exists"
// @Router       /foods [post]
func (h *FoodHandler) CreateFood(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateFoodRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	food, err := h.service.CreateFood(r.Context(), req)
	if err != nil {
		return serviceError(err, "Could not create food")
	}

	common.WriteJSON(w, http.StatusCreated, food)
	return nil
}

// ListFoods godoc
// @Summary      List all foods
// @Tags         foods
// @Produce      json
// @Success      200  {array}   model.Food
// @Router       /foods [get]
func (h *FoodHandler) ListFoods(w http.ResponseWriter, r *http.Request) *common.AppError {
	foods, err := h.service.ListFoods(r.Context())
	if err != nil {
		return serviceError(err, "Could not list foods")
	}

	common.WriteJSON(w, http.StatusOK, foods)
	return nil
}

// GetFood godoc
// @Summary      Get a food by ID
// @Tags         foods
// @Produce      json
// @Param        id   path      int  true  "Food ID"
// @Success      200  {object}  model.Food
// @Failure      400  {object}  common.AppError "Invalid food ID"
// @Failure      404  {object}  common.AppError "Food not found"
// @Router       /foods/{id} [get]
func (h *FoodHandler) GetFood(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid food ID", err)
	}

	food, err := h.service.GetFood(r.Context(), id)
	if err != nil {
		return serviceError(err, "Could not get food")
	}

	common.WriteJSON(w, http.StatusOK, food)
	return nil
}
