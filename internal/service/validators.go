package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/benx421/bank-sync/internal/models"
)

// ParseWindow validates a caller-supplied date range. Both bounds are
// required, formatted YYYY-MM-DD, and from must not be after to.
func ParseWindow(fromDate, toDate string) (models.SyncWindow, error) {
	fromDate = strings.TrimSpace(fromDate)
	toDate = strings.TrimSpace(toDate)
	if fromDate == "" || toDate == "" {
		return models.SyncWindow{}, &ServiceError{
			Code:    ErrCodeInvalidWindow,
			Message: "from and to dates are required for syncing transactions",
		}
	}

	from, err := time.Parse(time.DateOnly, fromDate)
	if err != nil {
		return models.SyncWindow{}, &ServiceError{
			Code:    ErrCodeInvalidWindow,
			Message: fmt.Sprintf("invalid from date %q", fromDate),
			Err:     err,
		}
	}
	to, err := time.Parse(time.DateOnly, toDate)
	if err != nil {
		return models.SyncWindow{}, &ServiceError{
			Code:    ErrCodeInvalidWindow,
			Message: fmt.Sprintf("invalid to date %q", toDate),
			Err:     err,
		}
	}

	window, err := models.NewSyncWindow(from, to)
	if err != nil {
		return models.SyncWindow{}, &ServiceError{
			Code:    ErrCodeInvalidWindow,
			Message: "from date cannot be greater than to date",
			Err:     err,
		}
	}
	return window, nil
}

// ValidateCadence checks a configured schedule name.
func ValidateCadence(schedule models.Cadence) error {
	for _, c := range models.Cadences {
		if c == schedule {
			return nil
		}
	}
	return fmt.Errorf("unknown schedule type: %s", schedule)
}
