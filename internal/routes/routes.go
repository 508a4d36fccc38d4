package routes

import (
	"net/http"

	"github.com/goalspan/goalspan/internal/app"
	"github.com/goalspan/goalspan/internal/handler"
	"github.com/goalspan/goalspan/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	user := handler.NewUserHandler(app.UserService, app.Cfg)
	goal := handler.NewGoalHandler(app.GoalService, app.Cfg)
	interval := handler.NewIntervalHandler(app.IntervalService, app.Cfg)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /api/health", health.Health)

	// Users
	mux.HandleFunc("POST /api/users", user.Create)
	mux.HandleFunc("GET /api/users", user.List)
	mux.HandleFunc("GET /api/users/{id}", user.Get)
	mux.HandleFunc("PUT /api/users/{id}", user.Update)
	mux.HandleFunc("DELETE /api/users/{id}", user.Delete)
	mux.HandleFunc("GET /api/users/{id}/intervals", user.Intervals)
	mux.HandleFunc("GET /api/users/{id}/goals", user.Goals)
	mux.HandleFunc("GET /api/users/{id}/goals/stats", user.GoalStats)

	// Goals
	mux.HandleFunc("POST /api/goals", goal.Create)
	mux.HandleFunc("GET /api/goals", goal.List)
	mux.HandleFunc("GET /api/goals/{id}", goal.Get)
	mux.HandleFunc("PUT /api/goals/{id}", goal.Update)
	mux.HandleFunc("DELETE /api/goals/{id}", goal.Delete)
	mux.HandleFunc("GET /api/goals/{id}/intervals", goal.Intervals)

	// Intervals
	mux.HandleFunc("POST /api/intervals", interval.Create)
	mux.HandleFunc("GET /api/intervals", interval.List)
	mux.HandleFunc("GET /api/intervals/active", interval.Active)
	mux.HandleFunc("GET /api/intervals/{id}", interval.Get)
	mux.HandleFunc("PUT /api/intervals/{id}", interval.Update)
	mux.HandleFunc("DELETE /api/intervals/{id}", interval.Delete)
	mux.HandleFunc("POST /api/intervals/{id}/goals", interval.AssociateGoal)
	mux.HandleFunc("GET /api/intervals/{id}/goals", interval.Goals)
	mux.HandleFunc("DELETE /api/intervals/{id}/goals/{goalId}", interval.DissociateGoal)

	// 404
	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.RequestLogging,
	)

	return h
}
