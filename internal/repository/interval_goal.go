package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goalspan/goalspan/internal/model"
)

type IntervalGoalRepository interface {
	Associate(intervalID, goalID int64) (*model.IntervalGoal, error)
	Dissociate(intervalID, goalID int64) (bool, error)
	Exists(intervalID, goalID int64) (bool, error)
	ByIntervalID(intervalID int64) ([]*model.IntervalGoalDetail, error)
	ByGoalID(goalID int64) ([]*model.GoalInterval, error)
	DeleteByIntervalID(intervalID int64) (int64, error)
	DeleteByGoalID(goalID int64) (int64, error)
	GoalStatsByUser(userID int64, startDate, endDate string) ([]*model.GoalStat, error)
}

type intervalGoalRepository struct {
	db *sqlx.DB
}

func NewIntervalGoalRepository(db *sqlx.DB) IntervalGoalRepository {
	return &intervalGoalRepository{db: db}
}

// Associate links an interval to a goal. The upsert is a single statement:
// an existing pair keeps its identity and only gets its created_at
// refreshed, so calling this N times yields exactly one row and the same id.
// Referential integrity is the store's job here; callers that want a 404
// instead of ErrForeignKey must check existence first.
func (r *intervalGoalRepository) Associate(intervalID, goalID int64) (*model.IntervalGoal, error) {
	now := time.Now()
	query := `INSERT INTO interval_goals (interval_id, goal_id, created_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (interval_id, goal_id) DO UPDATE SET created_at = excluded.created_at
	          RETURNING id`

	var id int64
	err := r.db.Get(&id, query, intervalID, goalID, now)
	if err != nil {
		return nil, constraintErr(err)
	}

	return &model.IntervalGoal{
		ID:         id,
		IntervalID: intervalID,
		GoalID:     goalID,
		CreatedAt:  now,
	}, nil
}

func (r *intervalGoalRepository) Dissociate(intervalID, goalID int64) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM interval_goals WHERE interval_id = $1 AND goal_id = $2`,
		intervalID, goalID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *intervalGoalRepository) Exists(intervalID, goalID int64) (bool, error) {
	var count int
	err := r.db.Get(&count,
		`SELECT COUNT(*) FROM interval_goals WHERE interval_id = $1 AND goal_id = $2`,
		intervalID, goalID)
	return count > 0, err
}

func (r *intervalGoalRepository) ByIntervalID(intervalID int64) ([]*model.IntervalGoalDetail, error) {
	query := `SELECT ig.id, ig.interval_id, ig.goal_id, ig.created_at,
	                 g.name AS goal_name, g.description AS goal_description
	          FROM interval_goals ig
	          JOIN goals g ON ig.goal_id = g.id
	          WHERE ig.interval_id = $1
	          ORDER BY g.name`

	details := []*model.IntervalGoalDetail{}
	err := r.db.Select(&details, query, intervalID)
	if err != nil {
		return nil, err
	}

	return details, nil
}

func (r *intervalGoalRepository) ByGoalID(goalID int64) ([]*model.GoalInterval, error) {
	query := `SELECT ig.id, ig.interval_id, ig.goal_id, ig.created_at,
	                 i.start_date, i.end_date, i.user_id
	          FROM interval_goals ig
	          JOIN intervals i ON ig.interval_id = i.id
	          WHERE ig.goal_id = $1
	          ORDER BY i.start_date DESC`

	links := []*model.GoalInterval{}
	err := r.db.Select(&links, query, goalID)
	if err != nil {
		return nil, err
	}

	return links, nil
}

func (r *intervalGoalRepository) DeleteByIntervalID(intervalID int64) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM interval_goals WHERE interval_id = $1`, intervalID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *intervalGoalRepository) DeleteByGoalID(goalID int64) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM interval_goals WHERE goal_id = $1`, goalID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GoalStatsByUser counts, per goal, the distinct intervals of one user
// linking to it. Optional dates restrict to intervals overlapping the
// [startDate, endDate] range. Ordered by count descending, then name.
func (r *intervalGoalRepository) GoalStatsByUser(userID int64, startDate, endDate string) ([]*model.GoalStat, error) {
	conds := []cond{{"i.user_id = ?", userID}}
	if startDate != "" {
		conds = append(conds, cond{"i.end_date >= ?", startDate})
	}
	if endDate != "" {
		conds = append(conds, cond{"i.start_date <= ?", endDate})
	}
	clause, args := whereSQL(conds)

	query := `SELECT g.id, g.name, COUNT(DISTINCT ig.interval_id) AS interval_count
	          FROM goals g
	          JOIN interval_goals ig ON g.id = ig.goal_id
	          JOIN intervals i ON ig.interval_id = i.id` + clause + `
	          GROUP BY g.id, g.name
	          ORDER BY interval_count DESC, g.name`

	stats := []*model.GoalStat{}
	err := r.db.Select(&stats, query, args...)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
