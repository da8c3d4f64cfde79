package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgoBuckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"under a minute", now.Add(-30 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-10 * 24 * time.Hour), "10d ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TimeAgo(tc.ts, now))
		})
	}
}

func TestTimeAgoOldTimestampIsAbsolute(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ts := now.Add(-40 * 24 * time.Hour)

	got := TimeAgo(ts, now)

	assert.NotContains(t, got, "ago")
	assert.Equal(t, ToDisplayDate(ts), got)
}

func TestTimeAgoDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ts := now.Add(-90 * time.Minute)

	assert.Equal(t, TimeAgo(ts, now), TimeAgo(ts, now))
}

func TestToDisplayZoneAppliesISTOffset(t *testing.T) {
	// 18:30 UTC is midnight IST the next day.
	ts := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, "02 Mar 2025, 12:00 AM", ToDisplayZone(ts))
}
