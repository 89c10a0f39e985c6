package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the issuing entity. Every grant, vesting event and portfolio
// hangs off a company row.
type Company struct {
	CompanyID      uuid.UUID `gorm:"column:company_id;type:uuid;primaryKey" json:"company_id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	CompanyCode    string    `gorm:"column:company_code;not null;uniqueIndex" json:"company_code"`
	TotalShares    float64   `gorm:"column:total_shares;type:decimal(18,2);not null;default:0" json:"total_shares"`
	ReservedShares float64   `gorm:"column:reserved_shares;type:decimal(18,2);not null;default:0" json:"reserved_shares"`
	CreatedAt      time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Company) TableName() string {
	return "Companies"
}

func (co *Company) BeforeCreate(tx *gorm.DB) error {
	if co.CompanyID == uuid.Nil {
		co.CompanyID = uuid.New()
	}
	return nil
}
