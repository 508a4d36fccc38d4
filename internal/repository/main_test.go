package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/goalspan/goalspan/internal/db"
	"github.com/goalspan/goalspan/internal/model"
)

// newTestDB opens a throwaway SQLite database with foreign keys enforced
// and the full schema applied.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	conn, err := sqlx.Connect("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	err = db.RunMigrations(conn.DB, "sqlite")
	require.NoError(t, err)

	return conn
}

func seedUser(t *testing.T, conn *sqlx.DB, email, firstName, lastName string) *model.User {
	t.Helper()

	now := time.Now()
	user := &model.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := NewUserRepository(conn).Create(user)
	require.NoError(t, err)
	return user
}

func seedGoal(t *testing.T, conn *sqlx.DB, name string) *model.Goal {
	t.Helper()

	now := time.Now()
	goal := &model.Goal{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := NewGoalRepository(conn).Create(goal)
	require.NoError(t, err)
	return goal
}

func seedInterval(t *testing.T, conn *sqlx.DB, userID int64, startDate, endDate string) *model.Interval {
	t.Helper()

	now := time.Now()
	interval := &model.Interval{
		StartDate: startDate,
		EndDate:   endDate,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := NewIntervalRepository(conn).Create(interval)
	require.NoError(t, err)
	return interval
}

func seedLink(t *testing.T, conn *sqlx.DB, intervalID, goalID int64) *model.IntervalGoal {
	t.Helper()

	link, err := NewIntervalGoalRepository(conn).Associate(intervalID, goalID)
	require.NoError(t, err)
	return link
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }
