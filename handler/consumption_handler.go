package handler

import (
	"net/http"

	"caltracker-api/common"
	"caltracker-api/model"
	"caltracker-api/service"
)

type ConsumptionHandler struct {
	service *service.ConsumptionService
}

func NewConsumptionHandler(s *service.ConsumptionService) *ConsumptionHandler {
	return &ConsumptionHandler{service: s}
}

// CreateConsumption godoc
// @Summary      Log food intake
// @Description  Records that the caller ate a quantity (grams) of a food on a calendar day.
// @Tags         consumptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        consumption body model.CreateConsumptionRequest true "Intake"
// @Success      201  {object}  model.Consumption
// @Failure      400  {object}  common.AppError "Invalid request body"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      403  {object}  common.AppError "Forbidden: user_id is not the caller"
// @Failure      404  {object}  common.AppError "User or food not found"
// @Router       /consumptions [post]
func (h *ConsumptionHandler) CreateConsumption(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}

	var req model.CreateConsumptionRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	consumption, err := h.service.CreateConsumption(r.Context(), caller, req)
	if err != nil {
		return serviceError(err, "Could not record consumption")
	}

	common.WriteJSON(w, http.StatusCreated, consumption)
	return nil
}
