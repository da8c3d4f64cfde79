package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ParticipationRegistered = "registered"
	ParticipationCancelled  = "cancelled"
	ParticipationPending    = "pending"
)

// JoinOutcome is the result of attempting to join an event.
type JoinOutcome int

const (
	Joined JoinOutcome = iota
	AlreadyJoined
	EventFull
	EventUnavailable
)

func (o JoinOutcome) String() string {
	switch o {
	case Joined:
		return "joined"
	case AlreadyJoined:
		return "already_joined"
	case EventFull:
		return "event_full"
	default:
		return "event_unavailable"
	}
}

type Participation struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID  uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Event    *Event    `gorm:"foreignKey:EventID" json:"event,omitempty"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status   string    `gorm:"size:20;not null;default:registered" json:"status"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (p *Participation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Participation) TableName() string {
	return "event_participants"
}
