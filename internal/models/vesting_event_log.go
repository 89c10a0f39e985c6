package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VestingEventLog records one row per successful state transition so audits
// can reconstruct what happened to an event and who drove it.
type VestingEventLog struct {
	LogID          uuid.UUID      `gorm:"column:log_id;type:uuid;primaryKey" json:"log_id"`
	VestingEventID uuid.UUID      `gorm:"column:vesting_event_id;type:uuid;not null" json:"vesting_event_id"`
	Action         string         `gorm:"column:action;type:varchar(30);not null" json:"action"`
	ActorUserID    *uuid.UUID     `gorm:"column:actor_user_id;type:uuid" json:"actor_user_id"`
	EventData      datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	CreatedAt      time.Time      `gorm:"column:createdAt" json:"createdAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (VestingEventLog) TableName() string {
	return "VestingEventLogs"
}

func (l *VestingEventLog) BeforeCreate(tx *gorm.DB) error {
	if l.LogID == uuid.Nil {
		l.LogID = uuid.New()
	}
	return nil
}
