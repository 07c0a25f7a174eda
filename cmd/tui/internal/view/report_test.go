package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/till/cmd/tui/internal/view"
)

func TestTimeframe_Filter(t *testing.T) {
	// Thursday.
	now := time.Date(2026, 10, 15, 16, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timeframe view.Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "Today",
			timeframe: view.TimeframeToday,
			wantStart: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "ThisWeekStartsMonday",
			timeframe: view.TimeframeThisWeek,
			wantStart: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "ThisMonth",
			timeframe: view.TimeframeThisMonth,
			wantStart: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "LastMonth",
			timeframe: view.TimeframeLastMonth,
			wantStart: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.timeframe.Filter(now)

			require.NotNil(t, f.StartDate)
			require.NotNil(t, f.EndDate)
			assert.True(t, tt.wantStart.Equal(*f.StartDate), f.StartDate)
			assert.True(t, tt.wantEnd.Add(-time.Nanosecond).Equal(*f.EndDate), f.EndDate)
		})
	}
}

func TestTimeframe_FilterAll(t *testing.T) {
	f := view.TimeframeAll.Filter(time.Now())

	assert.Nil(t, f.StartDate)
	assert.Nil(t, f.EndDate)
	assert.Equal(t, "All Time", view.TimeframeAll.String())
}
