package model

import (
	"time"
)

type Goal struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// GoalWithLink is a goal joined with the association row that links it to
// an interval, used when listing an interval's goals.
type GoalWithLink struct {
	Goal
	IntervalGoalID int64 `db:"interval_goal_id" json:"intervalGoalId"`
}

// GoalStat aggregates how many distinct intervals of one user link to a goal.
type GoalStat struct {
	GoalID        int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	IntervalCount int    `db:"interval_count" json:"intervalCount"`
}
