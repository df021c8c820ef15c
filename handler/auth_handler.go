package handler

import (
	"errors"
	"mime"
	"net/http"

	"caltracker-api/common"
	"caltracker-api/model"
	"caltracker-api/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Login godoc
// @Summary      Obtain a token pair
// @Description  Accepts JSON {email, password} or an OAuth2 password form (username, password).
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        credentials body model.LoginRequest false "Credentials"
// @Success      200  {object}  model.TokenPair
// @Failure      400  {object}  common.AppError "Invalid request"
// @Failure      401  {object}  common.AppError "Invalid credentials"
// @Router       /token [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return common.NewAppError(http.StatusBadRequest, "Invalid form body", err)
		}
		req.Email = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
		if err := common.ValidateStruct(&req); err != nil {
			return err
		}
	} else if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(err, "Could not log in")
	}

	common.WriteJSON(w, http.StatusOK, pair)
	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body model.RefreshRequest true "Refresh token"
// @Success      200  {object}  model.TokenPair
// @Failure      401  {object}  common.AppError "Unknown, revoked or expired refresh token"
// @Router       /token/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid or expired refresh token", err)
		}
		return serviceError(err, "Could not refresh token")
	}

	common.WriteJSON(w, http.StatusOK, pair)
	return nil
}

// Logout godoc
// @Summary      Revoke the caller's refresh token
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Router       /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	caller, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.Logout(r.Context(), caller); err != nil {
		return serviceError(err, "Could not log out")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}
