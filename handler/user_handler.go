package handler

import (
	"errors"
	"net/http"
	"strconv"

	"caltracker-api/common"
	"caltracker-api/logger"
	"caltracker-api/model"
	"caltracker-api/service"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

type registerResponse struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// Register godoc
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Email and password"
// @Success      201  {object}  registerResponse
// @Failure      400  {object}  common.AppError "Invalid request body"
// @Failure      409  {object}  common.AppError "Email already registered"
// @Router       /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		return serviceError(err, "Could not create user")
	}

	common.WriteJSON(w, http.StatusCreated, registerResponse{ID: user.ID, Email: user.Email})
	return nil
}

// ChangePassword godoc
// @Summary      Change a user's password
// @Description  The caller may only change their own password.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query  int  true  "Target user ID"
// @Param        passwords body model.ChangePasswordRequest true "Old and new password"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Invalid request"
// @Failure      401  {object}  common.AppError "Unauthorized or old password incorrect"
// @Failure      403  {object}  common.AppError "Forbidden: not the caller's account"
// @Router       /change-password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}

	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid or missing user_id", err)
	}

	var req model.ChangePasswordRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.service.ChangePassword(r.Context(), caller, userID, req); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, "Old password incorrect", err)
		}
		return serviceError(err, "Could not change password")
	}

	logger.Log.WithField("user_id", userID).Info("Password change request completed")
	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	return nil
}
