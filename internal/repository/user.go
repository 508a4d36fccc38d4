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

// UserFilter holds optional list predicates. Empty fields mean "no
// constraint on that field". Text fields match as substrings.
type UserFilter struct {
	Email     string
	FirstName string
	LastName  string
}

func (f UserFilter) conds() []cond {
	var cs []cond
	if f.Email != "" {
		cs = append(cs, cond{"email LIKE ?", "%" + f.Email + "%"})
	}
	if f.FirstName != "" {
		cs = append(cs, cond{"first_name LIKE ?", "%" + f.FirstName + "%"})
	}
	if f.LastName != "" {
		cs = append(cs, cond{"last_name LIKE ?", "%" + f.LastName + "%"})
	}
	return cs
}

// UserUpdate carries a partial patch; nil fields are left untouched.
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

type UserRepository interface {
	Create(user *model.User) error
	ByID(id int64) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	Count(f UserFilter) (int, error)
	All(f UserFilter, p Page) ([]*model.User, error)
	Update(id int64, u UserUpdate) (*model.User, error)
	Delete(id int64) (bool, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (email, first_name, last_name, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	err := r.db.Get(&user.ID, query, user.Email, user.FirstName, user.LastName, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return constraintErr(err)
	}

	return nil
}

func (r *userRepository) ByID(id int64) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, first_name, last_name, created_at, updated_at
	          FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, first_name, last_name, created_at, updated_at
	          FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Count(f UserFilter) (int, error) {
	clause, args := whereSQL(f.conds())

	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM users`+clause, args...)
	return count, err
}

func (r *userRepository) All(f UserFilter, p Page) ([]*model.User, error) {
	clause, args := whereSQL(f.conds())
	query := `SELECT id, email, first_name, last_name, created_at, updated_at
	          FROM users` + clause + ` ORDER BY last_name, first_name` + p.sql()

	users := []*model.User{}
	err := r.db.Select(&users, query, args...)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Update(id int64, u UserUpdate) (*model.User, error) {
	var sets []string
	var args []any
	n := 1

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if u.Email != nil {
		set("email", *u.Email)
	}
	if u.FirstName != nil {
		set("first_name", *u.FirstName)
	}
	if u.LastName != nil {
		set("last_name", *u.LastName)
	}

	if len(sets) == 0 {
		return nil, nil
	}
	set("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), n)

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

func (r *userRepository) Delete(id int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, constraintErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
