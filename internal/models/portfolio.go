package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portfolio types. Exactly one company_reserved portfolio exists per company;
// at most one employee_vested portfolio per (company, employee).
const (
	PortfolioTypeCompanyReserved = "company_reserved"
	PortfolioTypeEmployeeVested  = "employee_vested"
)

// Portfolio is a share ledger account. The unique index over
// (company_id, employee_id, portfolio_type) is what makes lazy provisioning
// an atomic insert-if-absent instead of a read-then-insert race.
type Portfolio struct {
	PortfolioID     uuid.UUID  `gorm:"column:portfolio_id;type:uuid;primaryKey" json:"portfolio_id"`
	PortfolioType   string     `gorm:"column:portfolio_type;type:varchar(20);not null;uniqueIndex:idx_portfolio_owner" json:"portfolio_type"`
	CompanyID       uuid.UUID  `gorm:"column:company_id;type:uuid;not null;uniqueIndex:idx_portfolio_owner" json:"company_id"`
	EmployeeID      *uuid.UUID `gorm:"column:employee_id;type:uuid;uniqueIndex:idx_portfolio_owner" json:"employee_id"`
	PortfolioNumber string     `gorm:"column:portfolio_number;not null" json:"portfolio_number"`
	TotalShares     float64    `gorm:"column:total_shares;type:decimal(18,2);not null;default:0" json:"total_shares"`
	AvailableShares float64    `gorm:"column:available_shares;type:decimal(18,2);not null;default:0" json:"available_shares"`
	LockedShares    float64    `gorm:"column:locked_shares;type:decimal(18,2);not null;default:0" json:"locked_shares"`
	CreatedAt       time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Portfolio) TableName() string {
	return "Portfolios"
}

func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.PortfolioID == uuid.Nil {
		p.PortfolioID = uuid.New()
	}
	return nil
}
