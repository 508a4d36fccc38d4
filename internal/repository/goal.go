package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goalspan/goalspan/internal/model"
)

// GoalFilter holds optional list predicates; Name matches as a substring.
type GoalFilter struct {
	Name string
}

func (f GoalFilter) conds() []cond {
	var cs []cond
	if f.Name != "" {
		cs = append(cs, cond{"name LIKE ?", "%" + f.Name + "%"})
	}
	return cs
}

// GoalUpdate carries a partial patch; nil fields are left untouched.
type GoalUpdate struct {
	Name        *string
	Description *string
}

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(id int64) (*model.Goal, error)
	Count(f GoalFilter) (int, error)
	All(f GoalFilter, p Page) ([]*model.Goal, error)
	Update(id int64, u GoalUpdate) (*model.Goal, error)
	Delete(id int64) (bool, error)
	ByIntervalID(intervalID int64) ([]*model.Goal, error)
	ByUserID(userID int64, p Page) ([]*model.Goal, error)
	CountByUserID(userID int64) (int, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (name, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`

	err := r.db.Get(&goal.ID, query, goal.Name, goal.Description, goal.CreatedAt, goal.UpdatedAt)
	if err != nil {
		return constraintErr(err)
	}

	return nil
}

func (r *goalRepository) ByID(id int64) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT id, name, description, created_at, updated_at
	          FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Count(f GoalFilter) (int, error) {
	clause, args := whereSQL(f.conds())

	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM goals`+clause, args...)
	return count, err
}

func (r *goalRepository) All(f GoalFilter, p Page) ([]*model.Goal, error) {
	clause, args := whereSQL(f.conds())
	query := `SELECT id, name, description, created_at, updated_at
	          FROM goals` + clause + ` ORDER BY name` + p.sql()

	goals := []*model.Goal{}
	err := r.db.Select(&goals, query, args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(id int64, u GoalUpdate) (*model.Goal, error) {
	var sets []string
	var args []any
	n := 1

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.Description != nil {
		set("description", *u.Description)
	}

	if len(sets) == 0 {
		return nil, nil
	}
	set("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE goals SET %s WHERE id = $%d`, strings.Join(sets, ", "), n)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return nil, constraintErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, nil
	}

	return r.ByID(id)
}

func (r *goalRepository) Delete(id int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return false, constraintErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *goalRepository) ByIntervalID(intervalID int64) ([]*model.Goal, error) {
	query := `SELECT g.id, g.name, g.description, g.created_at, g.updated_at
	          FROM goals g
	          JOIN interval_goals ig ON g.id = ig.goal_id
	          WHERE ig.interval_id = $1
	          ORDER BY g.name`

	goals := []*model.Goal{}
	err := r.db.Select(&goals, query, intervalID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// ByUserID lists the goals reachable through any of the user's intervals.
// DISTINCT because a goal may recur across many intervals of the same user.
func (r *goalRepository) ByUserID(userID int64, p Page) ([]*model.Goal, error) {
	query := `SELECT DISTINCT g.id, g.name, g.description, g.created_at, g.updated_at
	          FROM goals g
	          JOIN interval_goals ig ON g.id = ig.goal_id
	          JOIN intervals i ON ig.interval_id = i.id
	          WHERE i.user_id = $1
	          ORDER BY g.name` + p.sql()

	goals := []*model.Goal{}
	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountByUserID(userID int64) (int, error) {
	query := `SELECT COUNT(DISTINCT g.id)
	          FROM goals g
	          JOIN interval_goals ig ON g.id = ig.goal_id
	          JOIN intervals i ON ig.interval_id = i.id
	          WHERE i.user_id = $1`

	var count int
	err := r.db.Get(&count, query, userID)
	return count, err
}
