package repository

import (
	"context"
	"database/sql"
	"time"

	"caltracker-api/logger"
	"caltracker-api/model"

	"github.com/sirupsen/logrus"
)

// IConsumptionRepository defines the contract for consumption database operations.
type IConsumptionRepository interface {
	CreateConsumption(ctx context.Context, c *model.Consumption) error
	GetConsumptionsByUserAndRange(ctx context.Context, userID int, start, end time.Time) ([]*model.Consumption, error)
}

type ConsumptionRepository struct {
	DB *sql.DB
}

func NewConsumptionRepository(db *sql.DB) *ConsumptionRepository {
	return &ConsumptionRepository{DB: db}
}

func (r *ConsumptionRepository) CreateConsumption(ctx context.Context, c *model.Consumption) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":  c.UserID,
		"food_id":  c.FoodID,
		"quantity": c.QuantityGrams,
		"date":     c.Date.Format(model.DateLayout),
	})
	log.Info("Executing query to create a new consumption")

	query := `INSERT INTO consumptions (user_id, food_id, quantity_grams, date)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, c.UserID, c.FoodID, c.QuantityGrams, c.Date.Format(model.DateLayout)).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create consumption query")
		return translateError(err)
	}
	return nil
}

// GetConsumptionsByUserAndRange returns the user's consumptions dated within
// [start, end], both ends inclusive. Dates are sent as YYYY-MM-DD so the
// server's time zone never shifts a day.
func (r *ConsumptionRepository) GetConsumptionsByUserAndRange(ctx context.Context, userID int, start, end time.Time) ([]*model.Consumption, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"start":   start.Format(model.DateLayout),
		"end":     end.Format(model.DateLayout),
	})
	log.Debug("Executing query to get consumptions by user and date range")

	query := `
		SELECT id, user_id, food_id, quantity_grams, date, created_at
		FROM consumptions
		WHERE user_id = $1 AND date >= $2 AND date <= $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, start.Format(model.DateLayout), end.Format(model.DateLayout))
	if err != nil {
		log.WithError(err).Error("Failed to execute query for consumptions")
		return nil, err
	}
	defer rows.Close()

	var consumptions []*model.Consumption
	for rows.Next() {
		var c model.Consumption
		if err := rows.Scan(&c.ID, &c.UserID, &c.FoodID, &c.QuantityGrams, &c.Date, &c.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan consumption row")
			return nil, err
		}
		consumptions = append(consumptions, &c)
	}
	return consumptions, rows.Err()
}
