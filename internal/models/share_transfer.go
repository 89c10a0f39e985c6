package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transfer types and statuses. Downstream reconciliation may move a transfer
// past pending; this service only ever creates pending rows.
const (
	TransferTypeVesting  = "vesting"
	TransferTypeExercise = "exercise"

	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
)

// ShareTransfer is an immutable settlement record: one row per successfully
// settled or exercised vesting event, never mutated here after creation.
type ShareTransfer struct {
	TransferID        uuid.UUID `gorm:"column:transfer_id;type:uuid;primaryKey" json:"transfer_id"`
	TransferNumber    string    `gorm:"column:transfer_number;not null;uniqueIndex" json:"transfer_number"`
	CompanyID         uuid.UUID `gorm:"column:company_id;type:uuid;not null" json:"company_id"`
	GrantID           uuid.UUID `gorm:"column:grant_id;type:uuid;not null" json:"grant_id"`
	EmployeeID        uuid.UUID `gorm:"column:employee_id;type:uuid;not null" json:"employee_id"`
	FromPortfolioID   uuid.UUID `gorm:"column:from_portfolio_id;type:uuid;not null" json:"from_portfolio_id"`
	ToPortfolioID     uuid.UUID `gorm:"column:to_portfolio_id;type:uuid;not null" json:"to_portfolio_id"`
	SharesTransferred float64   `gorm:"column:shares_transferred;type:decimal(18,2);not null" json:"shares_transferred"`
	TransferType      string    `gorm:"column:transfer_type;type:varchar(20);not null" json:"transfer_type"`
	TransferDate      time.Time `gorm:"column:transfer_date;not null" json:"transfer_date"`
	Status            string    `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	VestingEventID    uuid.UUID `gorm:"column:vesting_event_id;type:uuid;not null" json:"vesting_event_id"`
	Note              string    `gorm:"column:note" json:"note"`
	CreatedAt         time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (ShareTransfer) TableName() string {
	return "ShareTransfers"
}

func (st *ShareTransfer) BeforeCreate(tx *gorm.DB) error {
	if st.TransferID == uuid.Nil {
		st.TransferID = uuid.New()
	}
	return nil
}
