package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

type Event struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title                string     `gorm:"size:200;not null" json:"title"`
	Description          string     `gorm:"type:text" json:"description"`
	Sport                string     `gorm:"size:50;not null;index" json:"sport"`
	Venue                string     `gorm:"size:200;not null" json:"venue"`
	EventDate            time.Time  `gorm:"not null;index" json:"event_date"`
	MaxParticipants      int        `gorm:"not null;default:0" json:"max_participants"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Status               string     `gorm:"size:20;not null;default:draft;index" json:"status"`
	PosterURL            *string    `gorm:"type:text" json:"poster_url,omitempty"`
	CreatedBy            *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	Creator              *User      `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"creator,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Filled by list queries via a correlated subquery; never migrated.
	ParticipantCount int64 `gorm:"->;-:migration" json:"participant_count"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// RegistrationOpen reports whether new joins are accepted at the given time.
func (e *Event) RegistrationOpen(now time.Time) bool {
	if e.Status != EventPublished {
		return false
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return false
	}
	return true
}
