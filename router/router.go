package router

import (
	"net/http"

	"caltracker-api/common"
	_ "caltracker-api/docs"
	"caltracker-api/handler"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	foodHandler *handler.FoodHandler,
	consumptionHandler *handler.ConsumptionHandler,
	statsHandler *handler.StatsHandler,
	authMiddleware func(http.Handler) http.Handler,
	loginLimiter func(http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /{$}", handler.Root)
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("POST /users", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /token", loginLimiter(handler.ErrorHandlingMiddleware(authHandler.Login)))
	mux.Handle("POST /token/refresh", loginLimiter(handler.ErrorHandlingMiddleware(authHandler.Refresh)))

	// Protected routes
	protected := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return authMiddleware(handler.ErrorHandlingMiddleware(h))
	}
	mux.Handle("POST /foods", protected(foodHandler.CreateFood))
	mux.Handle("GET /foods", protected(foodHandler.ListFoods))
	mux.Handle("GET /foods/{id}", protected(foodHandler.GetFood))
	mux.Handle("POST /logout", protected(authHandler.Logout))
	mux.Handle("POST /change-password", protected(userHandler.ChangePassword))
	mux.Handle("POST /consumptions", protected(consumptionHandler.CreateConsumption))
	mux.Handle("GET /stats/day", protected(statsHandler.DailyStats))
	mux.Handle("GET /stats/week", protected(statsHandler.WeeklyStats))
	mux.Handle("GET /stats/month", protected(statsHandler.MonthlyStats))

	return handler.RequestLogger(mux)
}
