package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"moodjournal/internal/models"
)

// mapError converts driver errors into model errors. Context errors pass
// through wrapped so callers can still errors.Is them.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
