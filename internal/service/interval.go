package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goalspan/goalspan/internal/model"
	"github.com/goalspan/goalspan/internal/repository"
)

var (
	ErrIntervalNotFound    = errors.New("interval not found")
	ErrAssociationNotFound = errors.New("association not found")
)

type IntervalService struct {
	intervals repository.IntervalRepository
	users     repository.UserRepository
	goals     repository.GoalRepository
	links     repository.IntervalGoalRepository
}

func NewIntervalService(
	intervals repository.IntervalRepository,
	users repository.UserRepository,
	goals repository.GoalRepository,
	links repository.IntervalGoalRepository,
) *IntervalService {
	return &IntervalService{
		intervals: intervals,
		users:     users,
		goals:     goals,
		links:     links,
	}
}

// Create inserts an interval for an existing user and then links the
// requested goals one by one. The steps are independent round-trips with
// no shared transaction: a failed link is recorded in its result entry and
// logged, never aborting the operation. Partial success is still success.
func (s *IntervalService) Create(startDate, endDate string, userID int64, goalIDs []int64) (*model.Interval, []model.GoalLinkResult, error) {
	owner, err := s.users.ByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if owner == nil {
		return nil, nil, ErrUserNotFound
	}

	now := time.Now()
	interval := &model.Interval{
		StartDate: startDate,
		EndDate:   endDate,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.intervals.Create(interval)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create interval: %w", err)
	}

	results := make([]model.GoalLinkResult, 0, len(goalIDs))
	for _, goalID := range goalIDs {
		res := model.GoalLinkResult{GoalID: goalID}

		goal, err := s.goals.ByID(goalID)
		switch {
		case err != nil:
			res.Error = err.Error()
		case goal == nil:
			res.Error = "goal not found"
		default:
			_, err = s.links.Associate(interval.ID, goalID)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Linked = true
			}
		}

		if !res.Linked {
			slog.Error("failed to link goal to interval",
				"interval_id", interval.ID,
				"goal_id", goalID,
				"reason", res.Error,
			)
		}
		results = append(results, res)
	}

	return interval, results, nil
}

func (s *IntervalService) ByID(id int64) (*model.Interval, error) {
	interval, err := s.intervals.ByID(id)
	if err != nil {
		return nil, err
	}
	if interval == nil {
		return nil, ErrIntervalNotFound
	}
	return interval, nil
}

func (s *IntervalService) List(f repository.IntervalFilter, page, pageSize int) ([]*model.Interval, int, error) {
	total, err := s.intervals.Count(f)
	if err != nil {
		return nil, 0, err
	}

	intervals, err := s.intervals.All(f, repository.Page{Skip: (page - 1) * pageSize, Limit: pageSize})
	if err != nil {
		return nil, 0, err
	}

	return intervals, total, nil
}

// Active lists intervals whose date range contains the given date. userID 0
// means any user.
func (s *IntervalService) Active(date string, userID int64) ([]*model.Interval, error) {
	return s.intervals.ActiveByDate(date, userID)
}

func (s *IntervalService) Update(id int64, u repository.IntervalUpdate) (*model.Interval, error) {
	existing, err := s.intervals.ByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrIntervalNotFound
	}

	if u.UserID != nil && *u.UserID != existing.UserID {
		owner, err := s.users.ByID(*u.UserID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, ErrUserNotFound
		}
	}

	updated, err := s.intervals.Update(id, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update interval: %w", err)
	}
	if updated == nil {
		return nil, ErrIntervalNotFound
	}

	return updated, nil
}

// Delete removes an interval together with its association rows. The rows
// belong to the link itself, so the interval side may remove them; goals
// are never touched.
func (s *IntervalService) Delete(id int64) error {
	existing, err := s.intervals.ByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrIntervalNotFound
	}

	_, err = s.links.DeleteByIntervalID(id)
	if err != nil {
		return fmt.Errorf("failed to remove interval associations: %w", err)
	}

	removed, err := s.intervals.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrIntervalNotFound
	}

	return nil
}

func (s *IntervalService) AssociateGoal(intervalID, goalID int64) (*model.IntervalGoal, error) {
	interval, err := s.intervals.ByID(intervalID)
	if err != nil {
		return nil, err
	}
	if interval == nil {
		return nil, ErrIntervalNotFound
	}

	goal, err := s.goals.ByID(goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, ErrGoalNotFound
	}

	return s.links.Associate(intervalID, goalID)
}

func (s *IntervalService) DissociateGoal(intervalID, goalID int64) error {
	interval, err := s.intervals.ByID(intervalID)
	if err != nil {
		return err
	}
	if interval == nil {
		return ErrIntervalNotFound
	}

	goal, err := s.goals.ByID(goalID)
	if err != nil {
		return err
	}
	if goal == nil {
		return ErrGoalNotFound
	}

	removed, err := s.links.Dissociate(intervalID, goalID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrAssociationNotFound
	}

	return nil
}

func (s *IntervalService) Goals(intervalID int64, page, pageSize int) ([]*model.GoalWithLink, int, error) {
	interval, err := s.intervals.ByID(intervalID)
	if err != nil {
		return nil, 0, err
	}
	if interval == nil {
		return nil, 0, ErrIntervalNotFound
	}

	total, err := s.intervals.CountGoals(intervalID)
	if err != nil {
		return nil, 0, err
	}

	goals, err := s.intervals.Goals(intervalID, repository.Page{Skip: (page - 1) * pageSize, Limit: pageSize})
	if err != nil {
		return nil, 0, err
	}

	return goals, total, nil
}
