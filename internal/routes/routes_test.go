package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalspan/goalspan/internal/app"
	"github.com/goalspan/goalspan/internal/config"
	"github.com/goalspan/goalspan/internal/db"
	"github.com/goalspan/goalspan/internal/repository"
	"github.com/goalspan/goalspan/internal/routes"
	"github.com/goalspan/goalspan/internal/service"
)

// envelope mirrors the uniform response body for assertions.
type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Results    *int            `json:"results"`
	Errors     []fieldError    `json:"errors"`
	Pagination *pagination     `json:"pagination"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type pagination struct {
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "api.db") + "?_pragma=foreign_keys(1)"
	conn, err := sqlx.Connect("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	err = db.RunMigrations(conn.DB, "sqlite")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(conn)
	goalRepo := repository.NewGoalRepository(conn)
	intervalRepo := repository.NewIntervalRepository(conn)
	linkRepo := repository.NewIntervalGoalRepository(conn)

	a := &app.App{
		Cfg: &config.Config{
			AppName:            "goalspan",
			AppEnv:             "development",
			CORSAllowedOrigins: []string{"*"},
			DefaultPageSize:    10,
			MaxPageSize:        100,
		},
		DB:              conn,
		UserService:     service.NewUserService(userRepo, intervalRepo, goalRepo, linkRepo),
		GoalService:     service.NewGoalService(goalRepo, linkRepo),
		IntervalService: service.NewIntervalService(intervalRepo, userRepo, goalRepo, linkRepo),
	}

	return routes.SetupRoutes(a)
}

func do(t *testing.T, h http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	err := json.Unmarshal(rec.Body.Bytes(), &env)
	require.NoError(t, err, "body: %s", rec.Body.String())

	return rec.Code, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func createUser(t *testing.T, h http.Handler, email string) int64 {
	t.Helper()

	code, env := do(t, h, http.MethodPost, "/api/users", map[string]any{
		"email":     email,
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})
	require.Equal(t, http.StatusCreated, code)

	var user struct {
		ID int64 `json:"id"`
	}
	decodeData(t, env, &user)
	return user.ID
}

func createGoal(t *testing.T, h http.Handler, name string) int64 {
	t.Helper()

	code, env := do(t, h, http.MethodPost, "/api/goals", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, code)

	var goal struct {
		ID int64 `json:"id"`
	}
	decodeData(t, env, &goal)
	return goal.ID
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	code, env := do(t, h, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
}

func TestUserLifecycle(t *testing.T) {
	h := newTestHandler(t)

	id := createUser(t, h, "ada@example.com")

	code, env := do(t, h, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
	require.Equal(t, http.StatusOK, code)
	var user struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
	}
	decodeData(t, env, &user)
	assert.Equal(t, "ada@example.com", user.Email)

	// duplicate email
	code, env = do(t, h, http.MethodPost, "/api/users", map[string]any{
		"email":     "ada@example.com",
		"firstName": "Augusta",
		"lastName":  "King",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "error", env.Status)

	// partial update
	code, env = do(t, h, http.MethodPut, fmt.Sprintf("/api/users/%d", id), map[string]any{
		"firstName": "Augusta",
	})
	require.Equal(t, http.StatusOK, code)
	decodeData(t, env, &user)
	assert.Equal(t, "Augusta", user.FirstName)
	assert.Equal(t, "ada@example.com", user.Email)

	code, _ = do(t, h, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, h, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUserValidation(t *testing.T) {
	h := newTestHandler(t)

	code, env := do(t, h, http.MethodPost, "/api/users", map[string]any{
		"email":     "not-an-email",
		"firstName": "A",
		"lastName":  "Lovelace",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation error", env.Message)
	require.Len(t, env.Errors, 2)
	assert.Equal(t, "email", env.Errors[0].Field)
	assert.Equal(t, "firstName", env.Errors[1].Field)
}

func TestUserEmptyUpdateRejected(t *testing.T) {
	h := newTestHandler(t)
	id := createUser(t, h, "ada@example.com")

	code, env := do(t, h, http.MethodPut, fmt.Sprintf("/api/users/%d", id), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "body", env.Errors[0].Field)
}

func TestUserListPagination(t *testing.T) {
	h := newTestHandler(t)

	createUser(t, h, "a@example.com")
	createUser(t, h, "b@example.com")
	createUser(t, h, "c@example.com")

	code, env := do(t, h, http.MethodGet, "/api/users?limit=2&page=2", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Results)
	assert.Equal(t, 1, *env.Results)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 3, env.Pagination.Total)
	assert.Equal(t, 2, env.Pagination.TotalPages)
	assert.Equal(t, 2, env.Pagination.CurrentPage)
	assert.False(t, env.Pagination.HasNext)
	assert.True(t, env.Pagination.HasPrev)
}

func TestIntervalCreateWithGoals(t *testing.T) {
	h := newTestHandler(t)

	userID := createUser(t, h, "ada@example.com")
	goalID := createGoal(t, h, "Learn Go")

	code, env := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-01-01",
		"endDate":   "2026-01-31",
		"userId":    userID,
		"goalIds":   []int64{goalID, 9999},
	})
	require.Equal(t, http.StatusCreated, code)

	var created struct {
		ID        int64  `json:"id"`
		StartDate string `json:"startDate"`
		Goals     []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"goals"`
		GoalResults []struct {
			GoalID int64  `json:"goalId"`
			Linked bool   `json:"linked"`
			Error  string `json:"error"`
		} `json:"goalResults"`
	}
	decodeData(t, env, &created)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "2026-01-01", created.StartDate)
	require.Len(t, created.Goals, 1)
	assert.Equal(t, goalID, created.Goals[0].ID)

	require.Len(t, created.GoalResults, 2)
	assert.True(t, created.GoalResults[0].Linked)
	assert.False(t, created.GoalResults[1].Linked)
	assert.Equal(t, "goal not found", created.GoalResults[1].Error)
}

func TestIntervalDateValidation(t *testing.T) {
	h := newTestHandler(t)
	userID := createUser(t, h, "ada@example.com")

	code, env := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-01-31",
		"endDate":   "2026-01-31",
		"userId":    userID,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "endDate", env.Errors[0].Field)
	assert.Equal(t, "endDate must be after startDate", env.Errors[0].Message)
}

func TestIntervalCreateUnknownUser(t *testing.T) {
	h := newTestHandler(t)

	code, env := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-01-01",
		"endDate":   "2026-01-31",
		"userId":    999,
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "user not found", env.Message)
}

func TestIntervalListGoalFilter(t *testing.T) {
	h := newTestHandler(t)

	userID := createUser(t, h, "ada@example.com")
	goalID := createGoal(t, h, "Learn Go")

	code, _ := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-01-01",
		"endDate":   "2026-01-31",
		"userId":    userID,
		"goalIds":   []int64{goalID},
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-02-01",
		"endDate":   "2026-02-28",
		"userId":    userID,
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, h, http.MethodGet, fmt.Sprintf("/api/intervals?goalId=%d", goalID), nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Results)
	assert.Equal(t, 1, *env.Results)
	assert.Equal(t, 1, env.Pagination.Total)

	code, env = do(t, h, http.MethodGet, "/api/intervals", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, *env.Results)
}

func TestIntervalActive(t *testing.T) {
	h := newTestHandler(t)

	userID := createUser(t, h, "ada@example.com")
	code, _ := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-01-01",
		"endDate":   "2026-01-31",
		"userId":    userID,
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, h, http.MethodGet, "/api/intervals/active?date=2026-01-15", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Results)
	assert.Equal(t, 1, *env.Results)

	code, env = do(t, h, http.MethodGet, "/api/intervals/active?date=2026-06-15", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, *env.Results)

	// date is required
	code, _ = do(t, h, http.MethodGet, "/api/intervals/active", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAssociateAndDissociateGoal(t *testing.T) {
	h := newTestHandler(t)

	userID := createUser(t, h, "ada@example.com")
	goalID := createGoal(t, h, "Learn Go")

	code, env := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-01-01",
		"endDate":   "2026-01-31",
		"userId":    userID,
	})
	require.Equal(t, http.StatusCreated, code)
	var interval struct {
		ID int64 `json:"id"`
	}
	decodeData(t, env, &interval)

	code, env = do(t, h, http.MethodPost, fmt.Sprintf("/api/intervals/%d/goals", interval.ID), map[string]any{
		"goalId": goalID,
	})
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "goal associated", env.Message)

	// idempotent: repeating still succeeds
	code, _ = do(t, h, http.MethodPost, fmt.Sprintf("/api/intervals/%d/goals", interval.ID), map[string]any{
		"goalId": goalID,
	})
	assert.Equal(t, http.StatusCreated, code)

	code, env = do(t, h, http.MethodGet, fmt.Sprintf("/api/intervals/%d/goals", interval.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, *env.Results)

	code, _ = do(t, h, http.MethodDelete, fmt.Sprintf("/api/intervals/%d/goals/%d", interval.ID, goalID), nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, h, http.MethodDelete, fmt.Sprintf("/api/intervals/%d/goals/%d", interval.ID, goalID), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "association not found", env.Message)
}

func TestGoalDeleteConflictWhileLinked(t *testing.T) {
	h := newTestHandler(t)

	userID := createUser(t, h, "ada@example.com")
	goalID := createGoal(t, h, "Learn Go")

	code, _ := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-01-01",
		"endDate":   "2026-01-31",
		"userId":    userID,
		"goalIds":   []int64{goalID},
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, h, http.MethodDelete, fmt.Sprintf("/api/goals/%d", goalID), nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "error", env.Status)
}

func TestUserGoalStats(t *testing.T) {
	h := newTestHandler(t)

	userID := createUser(t, h, "ada@example.com")
	reading := createGoal(t, h, "Reading")
	running := createGoal(t, h, "Running")

	for _, months := range [][2]string{
		{"2026-01-01", "2026-01-31"},
		{"2026-02-01", "2026-02-28"},
	} {
		code, _ := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
			"startDate": months[0],
			"endDate":   months[1],
			"userId":    userID,
			"goalIds":   []int64{reading},
		})
		require.Equal(t, http.StatusCreated, code)
	}
	code, _ := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-03-01",
		"endDate":   "2026-03-31",
		"userId":    userID,
		"goalIds":   []int64{running},
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, h, http.MethodGet, fmt.Sprintf("/api/users/%d/goals/stats", userID), nil)
	require.Equal(t, http.StatusOK, code)

	var stats []struct {
		Name          string `json:"name"`
		IntervalCount int    `json:"intervalCount"`
	}
	decodeData(t, env, &stats)
	require.Len(t, stats, 2)
	assert.Equal(t, "Reading", stats[0].Name)
	assert.Equal(t, 2, stats[0].IntervalCount)
	assert.Equal(t, "Running", stats[1].Name)
	assert.Equal(t, 1, stats[1].IntervalCount)

	// window covering March only
	code, env = do(t, h, http.MethodGet,
		fmt.Sprintf("/api/users/%d/goals/stats?startDate=2026-03-01&endDate=2026-03-31", userID), nil)
	require.Equal(t, http.StatusOK, code)
	decodeData(t, env, &stats)
	require.Len(t, stats, 1)
	assert.Equal(t, "Running", stats[0].Name)
}

func TestUserNestedListings(t *testing.T) {
	h := newTestHandler(t)

	userID := createUser(t, h, "ada@example.com")
	goalID := createGoal(t, h, "Learn Go")

	code, _ := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-01-01",
		"endDate":   "2026-01-31",
		"userId":    userID,
		"goalIds":   []int64{goalID},
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, h, http.MethodGet, fmt.Sprintf("/api/users/%d/intervals", userID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, *env.Results)

	code, env = do(t, h, http.MethodGet, fmt.Sprintf("/api/users/%d/goals", userID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, *env.Results)

	code, _ = do(t, h, http.MethodGet, "/api/users/999/goals", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGoalIntervalListing(t *testing.T) {
	h := newTestHandler(t)

	userID := createUser(t, h, "ada@example.com")
	goalID := createGoal(t, h, "Learn Go")

	code, _ := do(t, h, http.MethodPost, "/api/intervals", map[string]any{
		"startDate": "2026-01-01",
		"endDate":   "2026-01-31",
		"userId":    userID,
		"goalIds":   []int64{goalID},
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, h, http.MethodGet, fmt.Sprintf("/api/goals/%d/intervals", goalID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, *env.Results)

	var links []struct {
		IntervalID int64  `json:"intervalId"`
		StartDate  string `json:"startDate"`
		UserID     int64  `json:"userId"`
	}
	decodeData(t, env, &links)
	require.Len(t, links, 1)
	assert.Equal(t, "2026-01-01", links[0].StartDate)
	assert.Equal(t, userID, links[0].UserID)
}

func TestInvalidIDReturns400(t *testing.T) {
	h := newTestHandler(t)

	code, _ := do(t, h, http.MethodGet, "/api/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, h, http.MethodGet, "/api/goals/0", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUnknownRoute404(t *testing.T) {
	h := newTestHandler(t)

	code, env := do(t, h, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "route not found", env.Message)
}
