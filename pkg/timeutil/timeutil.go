package timeutil

import (
	"fmt"
	"time"
)

// DisplayZone is the fixed IST offset used for all rendered timestamps.
// Stored values are UTC.
var DisplayZone = time.FixedZone("IST", 5*3600+30*60)

const (
	displayLayout = "02 Jan 2006, 03:04 PM"
	dateLayout    = "02 Jan 2006"
)

// ToDisplayZone formats a stored UTC timestamp in the display zone.
func ToDisplayZone(t time.Time) string {
	return t.In(DisplayZone).Format(displayLayout)
}

// ToDisplayDate formats only the calendar date in the display zone.
func ToDisplayDate(t time.Time) string {
	return t.In(DisplayZone).Format(dateLayout)
}

// TimeAgo buckets the distance between now and t into a relative string.
// Timestamps older than 30 days fall back to an absolute date.
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return ToDisplayDate(t)
	}
}
