package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Grant lifecycle statuses.
const (
	GrantStatusDraft            = "draft"
	GrantStatusPendingSignature = "pending_signature"
	GrantStatusActive           = "active"
	GrantStatusCompleted        = "completed"
	GrantStatusTerminated       = "terminated"
)

// Grant is an employee's equity award under a plan. Once active,
// VestedShares + UnvestedShares == TotalShares (excluding forfeitures).
// Mutated only by grant acceptance and by vesting settlement.
type Grant struct {
	GrantID           uuid.UUID  `gorm:"column:grant_id;type:uuid;primaryKey" json:"grant_id"`
	EmployeeID        uuid.UUID  `gorm:"column:employee_id;type:uuid;not null" json:"employee_id"`
	CompanyID         uuid.UUID  `gorm:"column:company_id;type:uuid;not null" json:"company_id"`
	PlanID            uuid.UUID  `gorm:"column:plan_id;type:uuid;not null" json:"plan_id"`
	PlanType          string     `gorm:"column:plan_type;type:varchar(10);not null" json:"plan_type"`
	TotalShares       float64    `gorm:"column:total_shares;type:decimal(18,2);not null" json:"total_shares"`
	VestedShares      float64    `gorm:"column:vested_shares;type:decimal(18,2);not null;default:0" json:"vested_shares"`
	UnvestedShares    float64    `gorm:"column:unvested_shares;type:decimal(18,2);not null;default:0" json:"unvested_shares"`
	Status            string     `gorm:"column:status;type:varchar(30);not null;default:draft" json:"status"`
	ExercisePrice     *float64   `gorm:"column:exercise_price;type:decimal(18,2)" json:"exercise_price"`
	VestingScheduleID *uuid.UUID `gorm:"column:vesting_schedule_id;type:uuid" json:"vesting_schedule_id"`
	GrantedAt         *time.Time `gorm:"column:granted_at" json:"granted_at"`
	CreatedAt         time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Grant) TableName() string {
	return "Grants"
}

func (g *Grant) BeforeCreate(tx *gorm.DB) error {
	if g.GrantID == uuid.Nil {
		g.GrantID = uuid.New()
	}
	return nil
}
