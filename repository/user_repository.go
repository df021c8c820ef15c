package repository

import (
	"context"
	"database/sql"
	"time"

	"caltracker-api/logger"
	"caltracker-api/model"

	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByRefreshTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
	SetRefreshToken(ctx context.Context, userID int, tokenHash *string, expiresAt *time.Time) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, email, password_hash, refresh_token_hash, refresh_token_expires_at, created_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		user      model.User
		tokenHash sql.NullString
		expiresAt sql.NullTime
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &tokenHash, &expiresAt, &user.CreatedAt); err != nil {
		return nil, err
	}
	if tokenHash.Valid {
		user.RefreshTokenHash = &tokenHash.String
	}
	if expiresAt.Valid {
		user.RefreshTokenExpiresAt = &expiresAt.Time
	}
	return &user, nil
}

// CreateUser inserts a user. A taken email yields ErrDuplicateKey.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithField("email", user.Email)
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		err = translateError(err)
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

// GetUserByID returns sql.ErrNoRows when the user does not exist.
func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	log := logger.Log.WithField("user_id", id)
	log.Debug("Executing query to get user by ID")

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get user by ID query")
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	log := logger.Log.WithField("email", email)
	log.Debug("Executing query to get user by email")

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get user by email query")
		}
		return nil, err
	}
	return user, nil
}

// GetUserByRefreshTokenHash finds the user currently holding a refresh token.
func (r *UserRepository) GetUserByRefreshTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	log := logger.Log
	log.Debug("Executing query to get user by refresh token hash")

	query := `SELECT ` + userColumns + ` FROM users WHERE refresh_token_hash = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, tokenHash))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get user by refresh token query")
		}
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces the stored hash in a single statement. Returns
// sql.ErrNoRows if the user is gone.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to update user password")

	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update password query")
		return err
	}
	return requireAffected(res)
}

// SetRefreshToken stores (or with nil arguments, clears) the user's refresh
// token digest and expiry.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID int, tokenHash *string, expiresAt *time.Time) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"clear":   tokenHash == nil,
	})
	log.Info("Executing query to set refresh token")

	query := `UPDATE users SET refresh_token_hash = $1, refresh_token_expires_at = $2 WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, nullString(tokenHash), nullTime(expiresAt), userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute set refresh token query")
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
