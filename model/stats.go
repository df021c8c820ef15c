package model

import (
	"encoding/json"
	"time"
)

// NutritionTotals are raw, unrounded sums over a set of consumptions.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Period names the window a StatsReport was computed over.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// StatsReport is the result of a day/week/month stats query. Start and End
// are both inclusive.
type StatsReport struct {
	UserID int       `json:"user_id"`
	Period Period    `json:"period"`
	Start  time.Time `json:"-"`
	End    time.Time `json:"-"`
	NutritionTotals
}

func (r StatsReport) MarshalJSON() ([]byte, error) {
	type alias StatsReport
	return json.Marshal(struct {
		alias
		Start string `json:"start"`
		End   string `json:"end"`
	}{alias(r), r.Start.Format(DateLayout), r.End.Format(DateLayout)})
}
