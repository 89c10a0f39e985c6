package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vesting event statuses. Pending events are promoted to due by a scheduled
// procedure in the backing store as vesting dates arrive; everything after
// that is driven by this service.
const (
	EventStatusPending     = "pending"
	EventStatusDue         = "due"
	EventStatusVested      = "vested"
	EventStatusTransferred = "transferred"
	EventStatusExercised   = "exercised"
	EventStatusForfeited   = "forfeited"
	EventStatusCancelled   = "cancelled"
)

// Vesting event types.
const (
	EventTypeCliff        = "cliff"
	EventTypeTimeBased    = "time_based"
	EventTypePerformance  = "performance"
	EventTypeAcceleration = "acceleration"
)

// VestingEvent is one scheduled tranche of a grant. Rows are materialized
// once by schedule generation; SharesToVest never changes afterwards and the
// only mutation this service performs is a status transition with its
// accompanying stamps.
type VestingEvent struct {
	EventID                 uuid.UUID  `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	GrantID                 uuid.UUID  `gorm:"column:grant_id;type:uuid;not null" json:"grant_id"`
	EmployeeID              uuid.UUID  `gorm:"column:employee_id;type:uuid;not null" json:"employee_id"`
	CompanyID               uuid.UUID  `gorm:"column:company_id;type:uuid;not null" json:"company_id"`
	EventType               string     `gorm:"column:event_type;type:varchar(20);not null" json:"event_type"`
	SequenceNumber          int        `gorm:"column:sequence_number;not null" json:"sequence_number"`
	VestingDate             time.Time  `gorm:"column:vesting_date;not null" json:"vesting_date"`
	SharesToVest            float64    `gorm:"column:shares_to_vest;type:decimal(18,2);not null" json:"shares_to_vest"`
	Status                  string     `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	ExercisePrice           *float64   `gorm:"column:exercise_price;type:decimal(18,2)" json:"exercise_price"`
	FairMarketValue         *float64   `gorm:"column:fair_market_value;type:decimal(18,2)" json:"fair_market_value"`
	TotalExerciseCost       *float64   `gorm:"column:total_exercise_cost;type:decimal(18,2)" json:"total_exercise_cost"`
	PerformanceConditionMet *bool      `gorm:"column:performance_condition_met" json:"performance_condition_met"`
	PerformanceNotes        *string    `gorm:"column:performance_notes" json:"performance_notes"`
	ShareTransferID         *uuid.UUID `gorm:"column:share_transfer_id;type:uuid" json:"share_transfer_id"`
	ProcessedAt             *time.Time `gorm:"column:processed_at" json:"processed_at"`
	CreatedAt               time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt               time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (VestingEvent) TableName() string {
	return "VestingEvents"
}

func (v *VestingEvent) BeforeCreate(tx *gorm.DB) error {
	if v.EventID == uuid.Nil {
		v.EventID = uuid.New()
	}
	return nil
}
