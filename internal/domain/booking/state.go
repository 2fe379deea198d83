package booking

import (
	"strings"
	"time"

	"github.com/shareloop/service-sharing/internal/domain"
)

// TimeState classifies a booking's interval against a reference instant,
// independent of its decision status.
type TimeState string

const (
	StateCurrent TimeState = "CURRENT"
	StatePast    TimeState = "PAST"
	StateFuture  TimeState = "FUTURE"
)

// Classify places a non-degenerate interval (start < end) into exactly one
// of CURRENT, PAST or FUTURE. The start boundary is CURRENT-inclusive and
// the end boundary is PAST-inclusive, so the three states partition the
// timeline with no gap or overlap.
func Classify(start, end, now time.Time) TimeState {
	switch {
	case !end.After(now):
		return StatePast
	case start.After(now):
		return StateFuture
	default:
		return StateCurrent
	}
}

// StateFilter is the closed set of list-query filters. There is deliberately
// no APPROVED value: the legacy query surface never exposed one, and callers
// that need approved bookings use ALL and filter client-side.
type StateFilter string

const (
	FilterAll      StateFilter = "ALL"
	FilterCurrent  StateFilter = "CURRENT"
	FilterPast     StateFilter = "PAST"
	FilterFuture   StateFilter = "FUTURE"
	FilterWaiting  StateFilter = "WAITING"
	FilterRejected StateFilter = "REJECTED"
)

// ParseStateFilter decodes a raw query value into a StateFilter,
// case-insensitively. Unknown values are a validation error.
func ParseStateFilter(s string) (StateFilter, error) {
	filter := StateFilter(strings.ToUpper(s))
	switch filter {
	case FilterAll, FilterCurrent, FilterPast, FilterFuture, FilterWaiting, FilterRejected:
		return filter, nil
	}
	return "", domain.NewValidationError("unknown state: " + s)
}
