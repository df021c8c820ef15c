package handler

import (
	"context"
	"net/http"
	"strings"

	"caltracker-api/common"
	"caltracker-api/model"
	"caltracker-api/service"
)

type contextKey string

const UserKey contextKey = "user"

// AuthMiddleware resolves the bearer token to a user and stores it in the
// request context.
func AuthMiddleware(guard *service.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Fields(authHeader)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
				return
			}

			user, err := guard.ResolveIdentity(r.Context(), headerParts[1])
			if err != nil {
				serviceError(err, "Could not resolve identity").Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser returns the user stored by AuthMiddleware.
func currentUser(r *http.Request) (*model.User, *common.AppError) {
	user, ok := r.Context().Value(UserKey).(*model.User)
	if !ok || user == nil {
		return nil, common.NewAppError(http.StatusUnauthorized, "Invalid user in token", nil)
	}
	return user, nil
}
