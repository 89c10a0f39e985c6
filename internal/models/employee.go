package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the grant recipient. EmployeeNumber is the business identifier
// used to derive deterministic portfolio numbers at provisioning time.
type Employee struct {
	EmployeeID     uuid.UUID      `gorm:"column:employee_id;type:uuid;primaryKey" json:"employee_id"`
	CompanyID      uuid.UUID      `gorm:"column:company_id;type:uuid;not null" json:"company_id"`
	EmployeeNumber string         `gorm:"column:employee_number;not null" json:"employee_number"`
	Fullname       string         `gorm:"column:fullname;not null" json:"fullname"`
	Email          string         `gorm:"column:email;not null" json:"email"`
	CreatedAt      time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Employee) TableName() string {
	return "Employees"
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.EmployeeID == uuid.Nil {
		e.EmployeeID = uuid.New()
	}
	return nil
}
