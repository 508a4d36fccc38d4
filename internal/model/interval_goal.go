package model

import (
	"time"
)

// IntervalGoal links one interval to one goal. The (IntervalID, GoalID)
// pair is unique; re-associating refreshes CreatedAt instead of duplicating.
type IntervalGoal struct {
	ID         int64     `db:"id" json:"id"`
	IntervalID int64     `db:"interval_id" json:"intervalId"`
	GoalID     int64     `db:"goal_id" json:"goalId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// IntervalGoalDetail is an association denormalized with the goal's
// display fields, for listing from the interval side.
type IntervalGoalDetail struct {
	IntervalGoal
	GoalName        string  `db:"goal_name" json:"goalName"`
	GoalDescription *string `db:"goal_description" json:"goalDescription"`
}

// GoalInterval is an association denormalized with the interval's dates
// and owner, for listing from the goal side.
type GoalInterval struct {
	IntervalGoal
	StartDate string `db:"start_date" json:"startDate"`
	EndDate   string `db:"end_date" json:"endDate"`
	UserID    int64  `db:"user_id" json:"userId"`
}

// GoalLinkResult reports the outcome of linking one requested goal while
// creating an interval. A failed link never fails the whole operation.
type GoalLinkResult struct {
	GoalID int64  `json:"goalId"`
	Linked bool   `json:"linked"`
	Error  string `json:"error,omitempty"`
}
