package dto

import (
	"time"

	"github.com/google/uuid"
)

type EventFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Sport  string `form:"sport"`
	Venue  string `form:"venue"`
	Date   string `form:"date"` // exact calendar day, YYYY-MM-DD

	// Set by handlers, not bound from the query string.
	CreatedBy    *uuid.UUID  `form:"-"`
	UpcomingFrom *time.Time  `form:"-"`
	IDs          []uuid.UUID `form:"-"`

	// OrderAsc orders by event date ascending (chronological upcoming views)
	// instead of the default created_at DESC.
	OrderAsc bool `form:"-"`
}

type EventInput struct {
	Title                string `form:"title" binding:"required,max=200"`
	Description          string `form:"description"`
	Sport                string `form:"sport" binding:"required,max=50"`
	Venue                string `form:"venue" binding:"required,max=200"`
	EventDate            string `form:"event_date" binding:"required"`
	EventTime            string `form:"event_time"`
	MaxParticipants      int    `form:"max_participants" binding:"required,min=1"`
	RegistrationDeadline string `form:"registration_deadline"`
	Status               string `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
}

type BulkEventInput struct {
	Action   string   `form:"bulk_action" binding:"required,oneof=publish cancel delete"`
	EventIDs []string `form:"event_ids[]" binding:"required,min=1"`
}

type JoinInput struct {
	EventID string `form:"event_id" binding:"required,uuid"`
}
