package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/goalspan/goalspan/internal/model"
	"github.com/goalspan/goalspan/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserService struct {
	users     repository.UserRepository
	intervals repository.IntervalRepository
	goals     repository.GoalRepository
	links     repository.IntervalGoalRepository
}

func NewUserService(
	users repository.UserRepository,
	intervals repository.IntervalRepository,
	goals repository.GoalRepository,
	links repository.IntervalGoalRepository,
) *UserService {
	return &UserService{
		users:     users,
		intervals: intervals,
		goals:     goals,
		links:     links,
	}
}

// Create inserts a user. The email pre-check gives fast feedback; the
// unique constraint in the store is the authoritative guard for the
// remaining race window.
func (s *UserService) Create(email, firstName, lastName string) (*model.User, error) {
	existing, err := s.users.ByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	now := time.Now()
	user := &model.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.users.Create(user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserService) ByID(id int64) (*model.User, error) {
	user, err := s.users.ByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) List(f repository.UserFilter, page, pageSize int) ([]*model.User, int, error) {
	total, err := s.users.Count(f)
	if err != nil {
		return nil, 0, err
	}

	users, err := s.users.All(f, repository.Page{Skip: (page - 1) * pageSize, Limit: pageSize})
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (s *UserService) Update(id int64, u repository.UserUpdate) (*model.User, error) {
	existing, err := s.users.ByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	if u.Email != nil && *u.Email != existing.Email {
		taken, err := s.users.ByEmail(*u.Email)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrEmailTaken
		}
	}

	updated, err := s.users.Update(id, u)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if updated == nil {
		// row vanished between the existence check and the write
		return nil, ErrUserNotFound
	}

	return updated, nil
}

func (s *UserService) Delete(id int64) error {
	removed, err := s.users.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) Intervals(userID int64, page, pageSize int) ([]*model.Interval, int, error) {
	_, err := s.ByID(userID)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.intervals.CountByUserID(userID)
	if err != nil {
		return nil, 0, err
	}

	intervals, err := s.intervals.ByUserID(userID, repository.Page{Skip: (page - 1) * pageSize, Limit: pageSize})
	if err != nil {
		return nil, 0, err
	}

	return intervals, total, nil
}

// Goals lists the goals reachable through any of the user's intervals.
func (s *UserService) Goals(userID int64, page, pageSize int) ([]*model.Goal, int, error) {
	_, err := s.ByID(userID)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.goals.CountByUserID(userID)
	if err != nil {
		return nil, 0, err
	}

	goals, err := s.goals.ByUserID(userID, repository.Page{Skip: (page - 1) * pageSize, Limit: pageSize})
	if err != nil {
		return nil, 0, err
	}

	return goals, total, nil
}

func (s *UserService) GoalStats(userID int64, startDate, endDate string) ([]*model.GoalStat, error) {
	_, err := s.ByID(userID)
	if err != nil {
		return nil, err
	}

	return s.links.GoalStatsByUser(userID, startDate, endDate)
}
