package repository

import (
	"context"
	"database/sql"

	"caltracker-api/logger"
	"caltracker-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// IFoodRepository defines the contract for food database operations.
type IFoodRepository interface {
	CreateFood(ctx context.Context, food *model.Food) error
	GetFoodByID(ctx context.Context, id int) (*model.Food, error)
	GetFoodByName(ctx context.Context, name string) (*model.Food, error)
	GetFoodsByIDs(ctx context.Context, ids []int) ([]*model.Food, error)
	ListFoods(ctx context.Context) ([]*model.Food, error)
}

type FoodRepository struct {
	DB *sql.DB
}

func NewFoodRepository(db *sql.DB) *FoodRepository {
	return &FoodRepository{DB: db}
}

const foodColumns = `id, name, calories_100g, protein_100g, carbs_100g, fat_100g, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (*model.Food, error) {
	var f model.Food
	if err := row.Scan(&f.ID, &f.Name, &f.Calories100g, &f.Protein100g, &f.Carbs100g, &f.Fat100g, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFood inserts a food. A taken name yields ErrDuplicateKey.
func (r *FoodRepository) CreateFood(ctx context.Context, food *model.Food) error {
	log := logger.Log.WithField("name", food.Name)
	log.Info("Executing query to create a new food")

	query := `INSERT INTO foods (name, calories_100g, protein_100g, carbs_100g, fat_100g)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		food.Name, food.Calories100g, food.Protein100g, food.Carbs100g, food.Fat100g,
	).Scan(&food.ID, &food.CreatedAt)
	if err != nil {
		err = translateError(err)
		log.WithError(err).Error("Failed to execute create food query")
		return err
	}
	return nil
}

func (r *FoodRepository) GetFoodByID(ctx context.Context, id int) (*model.Food, error) {
	log := logger.Log.WithField("food_id", id)
	log.Debug("Executing query to get food by ID")

	query := `SELECT ` + foodColumns + ` FROM foods WHERE id = $1`
	food, err := scanFood(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get food by ID query")
		}
		return nil, err
	}
	return food, nil
}

func (r *FoodRepository) GetFoodByName(ctx context.Context, name string) (*model.Food, error) {
	log := logger.Log.WithField("name", name)
	log.Debug("Executing query to get food by name")

	query := `SELECT ` + foodColumns + ` FROM foods WHERE name = $1`
	food, err := scanFood(r.DB.QueryRowContext(ctx, query, name))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get food by name query")
		}
		return nil, err
	}
	return food, nil
}

// GetFoodsByIDs loads every listed food in one round trip. Unknown ids are
// simply absent from the result.
func (r *FoodRepository) GetFoodsByIDs(ctx context.Context, ids []int) ([]*model.Food, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	log := logger.Log.WithField("count", len(ids))
	log.Debug("Executing query to get foods by IDs")

	query := `SELECT ` + foodColumns + ` FROM foods WHERE id = ANY($1)`
	return r.queryFoods(ctx, log, query, pq.Array(ids))
}

func (r *FoodRepository) ListFoods(ctx context.Context) ([]*model.Food, error) {
	log := logrus.NewEntry(logger.Log)
	log.Debug("Executing query to list foods")

	query := `SELECT ` + foodColumns + ` FROM foods ORDER BY name`
	return r.queryFoods(ctx, log, query)
}

func (r *FoodRepository) queryFoods(ctx context.Context, log *logrus.Entry, query string, args ...any) ([]*model.Food, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute foods query")
		return nil, err
	}
	defer rows.Close()

	var foods []*model.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan food row")
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}
