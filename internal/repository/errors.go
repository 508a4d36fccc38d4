package repository

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicate reports a unique constraint violation at the store level.
	ErrDuplicate = errors.New("duplicate row")
	// ErrForeignKey reports a rejected orphan reference at the store level.
	ErrForeignKey = errors.New("referenced row constraint")
)

// constraintErr maps driver constraint failures onto the repository
// sentinels. Message matching works for both SQLite and PostgreSQL.
func constraintErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value"):
		return ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "violates foreign key"):
		return ErrForeignKey
	}
	return err
}
