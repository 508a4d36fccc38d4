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

// IntervalFilter holds optional list predicates. Dates constrain as ranges
// (start_date >= StartDate, end_date <= EndDate). A non-zero GoalID switches
// the query onto the association join; the remaining predicates still apply
// on that path, so combined filters never lose a constraint.
type IntervalFilter struct {
	UserID    int64
	GoalID    int64
	StartDate string
	EndDate   string
}

func (f IntervalFilter) conds(prefix string) []cond {
	var cs []cond
	if f.UserID != 0 {
		cs = append(cs, cond{prefix + "user_id = ?", f.UserID})
	}
	if f.StartDate != "" {
		cs = append(cs, cond{prefix + "start_date >= ?", f.StartDate})
	}
	if f.EndDate != "" {
		cs = append(cs, cond{prefix + "end_date <= ?", f.EndDate})
	}
	return cs
}

// IntervalUpdate carries a partial patch; nil fields are left untouched.
type IntervalUpdate struct {
	StartDate *string
	EndDate   *string
	UserID    *int64
}

type IntervalRepository interface {
	Create(interval *model.Interval) error
	ByID(id int64) (*model.Interval, error)
	Count(f IntervalFilter) (int, error)
	All(f IntervalFilter, p Page) ([]*model.Interval, error)
	Update(id int64, u IntervalUpdate) (*model.Interval, error)
	Delete(id int64) (bool, error)
	ByUserID(userID int64, p Page) ([]*model.Interval, error)
	CountByUserID(userID int64) (int, error)
	ActiveByDate(date string, userID int64) ([]*model.Interval, error)
	Goals(intervalID int64, p Page) ([]*model.GoalWithLink, error)
	CountGoals(intervalID int64) (int, error)
}

type intervalRepository struct {
	db *sqlx.DB
}

func NewIntervalRepository(db *sqlx.DB) IntervalRepository {
	return &intervalRepository{db: db}
}

func (r *intervalRepository) Create(interval *model.Interval) error {
	query := `INSERT INTO intervals (start_date, end_date, user_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	err := r.db.Get(&interval.ID, query,
		interval.StartDate, interval.EndDate, interval.UserID, interval.CreatedAt, interval.UpdatedAt)
	if err != nil {
		return constraintErr(err)
	}

	return nil
}

func (r *intervalRepository) ByID(id int64) (*model.Interval, error) {
	interval := &model.Interval{}
	query := `SELECT id, start_date, end_date, user_id, created_at, updated_at
	          FROM intervals WHERE id = $1`

	err := r.db.Get(interval, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return interval, nil
}

func (r *intervalRepository) Count(f IntervalFilter) (int, error) {
	var query string
	var args []any

	if f.GoalID != 0 {
		conds := append([]cond{{"ig.goal_id = ?", f.GoalID}}, f.conds("i.")...)
		clause, condArgs := whereSQL(conds)
		query = `SELECT COUNT(DISTINCT i.id)
		         FROM intervals i
		         JOIN interval_goals ig ON i.id = ig.interval_id` + clause
		args = condArgs
	} else {
		clause, condArgs := whereSQL(f.conds(""))
		query = `SELECT COUNT(*) FROM intervals` + clause
		args = condArgs
	}

	var count int
	err := r.db.Get(&count, query, args...)
	return count, err
}

func (r *intervalRepository) All(f IntervalFilter, p Page) ([]*model.Interval, error) {
	var query string
	var args []any

	if f.GoalID != 0 {
		conds := append([]cond{{"ig.goal_id = ?", f.GoalID}}, f.conds("i.")...)
		clause, condArgs := whereSQL(conds)
		query = `SELECT DISTINCT i.id, i.start_date, i.end_date, i.user_id, i.created_at, i.updated_at
		         FROM intervals i
		         JOIN interval_goals ig ON i.id = ig.interval_id` + clause +
			` ORDER BY i.start_date DESC` + p.sql()
		args = condArgs
	} else {
		clause, condArgs := whereSQL(f.conds(""))
		query = `SELECT id, start_date, end_date, user_id, created_at, updated_at
		         FROM intervals` + clause + ` ORDER BY start_date DESC` + p.sql()
		args = condArgs
	}

	intervals := []*model.Interval{}
	err := r.db.Select(&intervals, query, args...)
	if err != nil {
		return nil, err
	}

	return intervals, nil
}

func (r *intervalRepository) Update(id int64, u IntervalUpdate) (*model.Interval, error) {
	var sets []string
	var args []any
	n := 1

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if u.StartDate != nil {
		set("start_date", *u.StartDate)
	}
	if u.EndDate != nil {
		set("end_date", *u.EndDate)
	}
	if u.UserID != nil {
		set("user_id", *u.UserID)
	}

	if len(sets) == 0 {
		return nil, nil
	}
	set("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE intervals SET %s WHERE id = $%d`, strings.Join(sets, ", "), n)

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

func (r *intervalRepository) Delete(id int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM intervals WHERE id = $1`, id)
	if err != nil {
		return false, constraintErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *intervalRepository) ByUserID(userID int64, p Page) ([]*model.Interval, error) {
	query := `SELECT id, start_date, end_date, user_id, created_at, updated_at
	          FROM intervals
	          WHERE user_id = $1
	          ORDER BY start_date DESC` + p.sql()

	intervals := []*model.Interval{}
	err := r.db.Select(&intervals, query, userID)
	if err != nil {
		return nil, err
	}

	return intervals, nil
}

func (r *intervalRepository) CountByUserID(userID int64) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM intervals WHERE user_id = $1`, userID)
	return count, err
}

// ActiveByDate lists intervals whose range contains the given date,
// inclusive on both ends. userID 0 means any user.
func (r *intervalRepository) ActiveByDate(date string, userID int64) ([]*model.Interval, error) {
	conds := []cond{{"? BETWEEN start_date AND end_date", date}}
	if userID != 0 {
		conds = append(conds, cond{"user_id = ?", userID})
	}
	clause, args := whereSQL(conds)
	query := `SELECT id, start_date, end_date, user_id, created_at, updated_at
	          FROM intervals` + clause + ` ORDER BY start_date DESC`

	intervals := []*model.Interval{}
	err := r.db.Select(&intervals, query, args...)
	if err != nil {
		return nil, err
	}

	return intervals, nil
}

func (r *intervalRepository) Goals(intervalID int64, p Page) ([]*model.GoalWithLink, error) {
	query := `SELECT g.id, g.name, g.description, g.created_at, g.updated_at, ig.id AS interval_goal_id
	          FROM goals g
	          JOIN interval_goals ig ON g.id = ig.goal_id
	          WHERE ig.interval_id = $1
	          ORDER BY g.name` + p.sql()

	goals := []*model.GoalWithLink{}
	err := r.db.Select(&goals, query, intervalID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *intervalRepository) CountGoals(intervalID int64) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM interval_goals WHERE interval_id = $1`, intervalID)
	return count, err
}
