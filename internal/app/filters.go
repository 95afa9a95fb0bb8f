package app

import (
	"fmt"
	"time"

	"github.com/example/vreg/internal/ports/secondary"
)

// parseTimeRange turns optional RFC3339 bounds into times for the
// date-range filter. A malformed bound is a validation failure rather
// than a silently empty result set.
func parseTimeRange(since, until string) (time.Time, time.Time, error) {
	var s, u time.Time
	var err error
	if since != "" {
		s, err = time.Parse(time.RFC3339, since)
		if err != nil {
			return s, u, fmt.Errorf("%w: since must be RFC3339: %q", secondary.ErrValidation, since)
		}
	}
	if until != "" {
		u, err = time.Parse(time.RFC3339, until)
		if err != nil {
			return s, u, fmt.Errorf("%w: until must be RFC3339: %q", secondary.ErrValidation, until)
		}
	}
	return s, u, nil
}
