package model

import "time"

// Food is a nutrition reference. All nutrient values are per 100 grams.
type Food struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Calories100g float64   `json:"calories_100g"`
	Protein100g  float64   `json:"protein_100g"`
	Carbs100g    float64   `json:"carbs_100g"`
	Fat100g      float64   `json:"fat_100g"`
	CreatedAt    time.Time `json:"created_at"`
}
