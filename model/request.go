// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest defines the payload for user authentication. It is also
// filled from the OAuth2 password form (username, password).
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token to exchange for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordRequest defines the payload for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// CreateFoodRequest defines the payload for a new food. Values are per 100g.
type CreateFoodRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Calories100g float64 `json:"calories_100g" validate:"gte=0"`
	Protein100g  float64 `json:"protein_100g" validate:"gte=0"`
	Carbs100g    float64 `json:"carbs_100g" validate:"gte=0"`
	Fat100g      float64 `json:"fat_100g" validate:"gte=0"`
}

// CreateConsumptionRequest defines the payload for logging an intake.
type CreateConsumptionRequest struct {
	UserID   int     `json:"user_id" validate:"required,gt=0"`
	FoodID   int     `json:"food_id" validate:"required,gt=0"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
}
