package app

import (
	"fmt"

	"github.com/goalspan/goalspan/internal/config"
	"github.com/goalspan/goalspan/internal/db"
	"github.com/goalspan/goalspan/internal/repository"
	"github.com/goalspan/goalspan/internal/service"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	UserService     *service.UserService
	GoalService     *service.GoalService
	IntervalService *service.IntervalService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	intervalRepository := repository.NewIntervalRepository(database)
	intervalGoalRepository := repository.NewIntervalGoalRepository(database)

	// Services
	userService := service.NewUserService(userRepository, intervalRepository, goalRepository, intervalGoalRepository)
	goalService := service.NewGoalService(goalRepository, intervalGoalRepository)
	intervalService := service.NewIntervalService(intervalRepository, userRepository, goalRepository, intervalGoalRepository)

	return &App{
		Cfg:             cfg,
		DB:              database,
		UserService:     userService,
		GoalService:     goalService,
		IntervalService: intervalService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
