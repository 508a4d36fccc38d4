package model

import (
	"time"
)

// Interval is a user-owned date range. Dates travel and persist as
// YYYY-MM-DD strings, so lexicographic order matches chronological order.
type Interval struct {
	ID        int64     `db:"id" json:"id"`
	StartDate string    `db:"start_date" json:"startDate"`
	EndDate   string    `db:"end_date" json:"endDate"`
	UserID    int64     `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
