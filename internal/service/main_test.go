package service

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/goalspan/goalspan/internal/db"
	"github.com/goalspan/goalspan/internal/repository"
)

// deps bundles the services plus the raw repositories for seeding and
// asserting directly against the store.
type deps struct {
	users     *UserService
	goals     *GoalService
	intervals *IntervalService

	userRepo     repository.UserRepository
	goalRepo     repository.GoalRepository
	intervalRepo repository.IntervalRepository
	linkRepo     repository.IntervalGoalRepository
}

func newTestServices(t *testing.T) deps {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	conn, err := sqlx.Connect("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	err = db.RunMigrations(conn.DB, "sqlite")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(conn)
	goalRepo := repository.NewGoalRepository(conn)
	intervalRepo := repository.NewIntervalRepository(conn)
	linkRepo := repository.NewIntervalGoalRepository(conn)

	return deps{
		users:        NewUserService(userRepo, intervalRepo, goalRepo, linkRepo),
		goals:        NewGoalService(goalRepo, linkRepo),
		intervals:    NewIntervalService(intervalRepo, userRepo, goalRepo, linkRepo),
		userRepo:     userRepo,
		goalRepo:     goalRepo,
		intervalRepo: intervalRepo,
		linkRepo:     linkRepo,
	}
}
