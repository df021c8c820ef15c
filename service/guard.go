package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"caltracker-api/logger"
	"caltracker-api/model"
	"caltracker-api/repository"

	"github.com/sirupsen/logrus"
)

// Guard resolves who is calling and whether they may act on a user's records.
type Guard struct {
	tokens *TokenService
	users  repository.IUserRepository
}

func NewGuard(tokens *TokenService, users repository.IUserRepository) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// ResolveIdentity maps a bearer token to its user. An invalid or expired
// token, or a token for a user that no longer exists, yields
// ErrUnauthenticated. Store failures are returned as they are.
func (g *Guard) ResolveIdentity(ctx context.Context, token string) (*model.User, error) {
	userID, err := g.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := g.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithField("user_id", userID).Warn("Valid token for a user that no longer exists")
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("could not load user: %w", err)
	}
	return user, nil
}

// AuthorizeOwner allows the call only when the resolved user is the target.
func (g *Guard) AuthorizeOwner(user *model.User, targetUserID int) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if user.ID != targetUserID {
		logger.Log.WithFields(logrus.Fields{
			"requesting_user_id": user.ID,
			"target_user_id":     targetUserID,
		}).Warn("Permission denied for another user's resource")
		return ErrForbidden
	}
	return nil
}
