package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityLogEntry is an append-only audit record. Rows are never updated
// or deleted by normal flows.
type ActivityLogEntry struct {
	ID        uint64         `gorm:"primaryKey" json:"id"`
	ActorID   *uuid.UUID     `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	Actor     *User          `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL" json:"actor,omitempty"`
	Action    string         `gorm:"size:64;not null;index" json:"action"`
	Table     string         `gorm:"column:table_name;size:64;index" json:"table_name"`
	RecordID  string         `gorm:"size:64" json:"record_id"`
	OldValues datatypes.JSON `json:"old_values,omitempty"`
	NewValues datatypes.JSON `json:"new_values,omitempty"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	UserAgent string         `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ActivityLogEntry) TableName() string {
	return "activity_logs"
}
