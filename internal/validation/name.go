package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateName validates a person name field (first or last name).
func ValidateName(name string) error {
	return boundedText(name, 2, 50)
}

// ValidateGoalName validates a goal's name.
func ValidateGoalName(name string) error {
	return boundedText(name, 2, 100)
}

// ValidateDescription validates an optional free-text description.
func ValidateDescription(description string) error {
	if len(description) > 500 {
		return errors.New("must not exceed 500 characters")
	}
	return nil
}

func boundedText(s string, min, max int) error {
	trimmed := strings.TrimSpace(s)

	if trimmed == "" {
		return errors.New("is required")
	}
	if len(trimmed) < min || len(trimmed) > max {
		return fmt.Errorf("must be between %d and %d characters", min, max)
	}

	return nil
}
