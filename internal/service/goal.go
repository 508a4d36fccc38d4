package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/goalspan/goalspan/internal/model"
	"github.com/goalspan/goalspan/internal/repository"
)

var ErrGoalNotFound = errors.New("goal not found")

type GoalService struct {
	goals repository.GoalRepository
	links repository.IntervalGoalRepository
}

func NewGoalService(goals repository.GoalRepository, links repository.IntervalGoalRepository) *GoalService {
	return &GoalService{
		goals: goals,
		links: links,
	}
}

func (s *GoalService) Create(name string, description *string) (*model.Goal, error) {
	now := time.Now()
	goal := &model.Goal{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.goals.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(id int64) (*model.Goal, error) {
	goal, err := s.goals.ByID(id)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, ErrGoalNotFound
	}
	return goal, nil
}

func (s *GoalService) List(f repository.GoalFilter, page, pageSize int) ([]*model.Goal, int, error) {
	total, err := s.goals.Count(f)
	if err != nil {
		return nil, 0, err
	}

	goals, err := s.goals.All(f, repository.Page{Skip: (page - 1) * pageSize, Limit: pageSize})
	if err != nil {
		return nil, 0, err
	}

	return goals, total, nil
}

func (s *GoalService) Update(id int64, u repository.GoalUpdate) (*model.Goal, error) {
	existing, err := s.goals.ByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrGoalNotFound
	}

	updated, err := s.goals.Update(id, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	if updated == nil {
		return nil, ErrGoalNotFound
	}

	return updated, nil
}

// Delete removes a goal. Associations are not cascaded: deleting a goal
// that intervals still link to fails with repository.ErrForeignKey.
func (s *GoalService) Delete(id int64) error {
	removed, err := s.goals.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrGoalNotFound
	}
	return nil
}

// Intervals lists the associations of one goal, denormalized with each
// interval's dates and owner.
func (s *GoalService) Intervals(goalID int64) ([]*model.GoalInterval, error) {
	_, err := s.ByID(goalID)
	if err != nil {
		return nil, err
	}

	return s.links.ByGoalID(goalID)
}
