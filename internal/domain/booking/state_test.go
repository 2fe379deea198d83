package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareloop/service-sharing/internal/domain"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	hour := time.Hour

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  TimeState
	}{
		{"interval entirely before now", now.Add(-3 * hour), now.Add(-hour), StatePast},
		{"interval entirely after now", now.Add(hour), now.Add(3 * hour), StateFuture},
		{"interval straddling now", now.Add(-hour), now.Add(hour), StateCurrent},
		{"end exactly at now is past", now.Add(-hour), now, StatePast},
		{"start exactly at now is current", now, now.Add(hour), StateCurrent},
		{"start one nanosecond after now is future", now.Add(time.Nanosecond), now.Add(hour), StateFuture},
		{"end one nanosecond after now is current", now.Add(-hour), now.Add(time.Nanosecond), StateCurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.start, tt.end, now))
		})
	}
}

// Every interval lands in exactly one state; the boundaries leave no gap.
func TestClassifyPartitionsTimeline(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	for _, startOffset := range []time.Duration{-2 * time.Hour, -time.Minute, 0, time.Minute, 2 * time.Hour} {
		for _, length := range []time.Duration{time.Minute, time.Hour, 48 * time.Hour} {
			start := now.Add(startOffset)
			end := start.Add(length)

			got := Classify(start, end, now)
			switch got {
			case StatePast:
				assert.False(t, end.After(now), "PAST must have end <= now")
			case StateFuture:
				assert.True(t, start.After(now), "FUTURE must have start > now")
			case StateCurrent:
				assert.False(t, start.After(now), "CURRENT must have start <= now")
				assert.True(t, end.After(now), "CURRENT must have end > now")
			default:
				t.Fatalf("unexpected state %q", got)
			}
		}
	}
}

func TestParseStateFilter(t *testing.T) {
	tests := []struct {
		input string
		want  StateFilter
	}{
		{"ALL", FilterAll},
		{"all", FilterAll},
		{"Current", FilterCurrent},
		{"PAST", FilterPast},
		{"future", FilterFuture},
		{"waiting", FilterWaiting},
		{"REJECTED", FilterRejected},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStateFilter(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStateFilterUnknown(t *testing.T) {
	for _, input := range []string{"", "APPROVED", "UNKNOWN", "ALL "} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseStateFilter(input)
			require.Error(t, err)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, err.Error(), "unknown state")
		})
	}
}
