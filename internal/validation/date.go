package validation

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// ValidateDate checks for a calendar date in YYYY-MM-DD form. Dates travel
// as strings throughout the API so that lexicographic comparisons in the
// store match chronological order.
func ValidateDate(date string) error {
	if date == "" {
		return errors.New("is required")
	}
	_, err := time.Parse(dateLayout, date)
	if err != nil {
		return errors.New("must be a valid date in YYYY-MM-DD format")
	}
	return nil
}

// ValidateDateRange requires end to be strictly after start. Both values
// must already be valid dates.
func ValidateDateRange(start, end string) error {
	if end <= start {
		return errors.New("endDate must be after startDate")
	}
	return nil
}
