package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

// Consumption records that a user ate QuantityGrams of a food on Date.
type Consumption struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	FoodID        int       `json:"food_id"`
	QuantityGrams float64   `json:"quantity"`
	Date          time.Time `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// MarshalJSON renders Date as a plain calendar date.
func (c Consumption) MarshalJSON() ([]byte, error) {
	type alias Consumption
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(c), c.Date.Format(DateLayout)})
}
