package model

import "time"

type Setting struct {
	Key         string    `gorm:"size:100;primaryKey" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Type        string    `gorm:"size:20;not null;default:string" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
