package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan types.
const (
	PlanTypeESOP = "ESOP"
	PlanTypeRSU  = "RSU"
	PlanTypeRSA  = "RSA"
)

// EquityPlan groups grants under one plan type and carries the plan-level
// default exercise price, the last resort in exercise-price resolution
// (event, then grant, then plan).
type EquityPlan struct {
	PlanID               uuid.UUID `gorm:"column:plan_id;type:uuid;primaryKey" json:"plan_id"`
	CompanyID            uuid.UUID `gorm:"column:company_id;type:uuid;not null" json:"company_id"`
	Name                 string    `gorm:"column:name;not null" json:"name"`
	PlanType             string    `gorm:"column:plan_type;type:varchar(10);not null" json:"plan_type"`
	DefaultExercisePrice *float64  `gorm:"column:default_exercise_price;type:decimal(18,2)" json:"default_exercise_price"`
	PoolShares           float64   `gorm:"column:pool_shares;type:decimal(18,2);not null;default:0" json:"pool_shares"`
	CreatedAt            time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt            time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (EquityPlan) TableName() string {
	return "EquityPlans"
}

func (p *EquityPlan) BeforeCreate(tx *gorm.DB) error {
	if p.PlanID == uuid.Nil {
		p.PlanID = uuid.New()
	}
	return nil
}
