// Package display holds pure presentation helpers shared by all pages.
package display

import (
	"strings"
	"unicode/utf8"

	"github.com/sportsmeet/manager/internal/model"
)

// Name returns the human-readable name for a user, falling back to the
// username. A nil user renders as "System" (e.g. deleted event creators).
func Name(u *model.User) string {
	if u == nil {
		return "System"
	}

	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// Initials returns up to two uppercase initials for avatar placeholders.
func Initials(u *model.User) string {
	name := Name(u)
	parts := strings.Fields(name)

	switch {
	case len(parts) >= 2:
		return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[1]))
	case len(parts) == 1:
		return strings.ToUpper(firstRune(parts[0]))
	default:
		return "?"
	}
}

func firstRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

// SportIcon maps a sport category to an emoji glyph used in list views.
func SportIcon(sport string) string {
	switch strings.ToLower(strings.TrimSpace(sport)) {
	case "football", "soccer":
		return "⚽"
	case "basketball":
		return "🏀"
	case "cricket":
		return "🏏"
	case "tennis":
		return "🎾"
	case "badminton":
		return "🏸"
	case "volleyball":
		return "🏐"
	case "swimming":
		return "🏊"
	case "running", "athletics":
		return "🏃"
	default:
		return "🏅"
	}
}

// SportColor maps a sport category to a badge color class.
func SportColor(sport string) string {
	switch strings.ToLower(strings.TrimSpace(sport)) {
	case "football", "soccer":
		return "green"
	case "basketball":
		return "orange"
	case "cricket":
		return "blue"
	case "tennis":
		return "lime"
	case "badminton":
		return "teal"
	case "volleyball":
		return "yellow"
	case "swimming":
		return "cyan"
	case "running", "athletics":
		return "red"
	default:
		return "gray"
	}
}

// StatusBadge maps an event status to a banner color.
func StatusBadge(status string) string {
	switch status {
	case model.EventPublished:
		return "success"
	case model.EventCancelled:
		return "danger"
	case model.EventCompleted:
		return "secondary"
	default:
		return "warning"
	}
}
