package portfolios

import (
	"errors"
	"fmt"

	"vesta-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrReservedPortfolioMissing: the company-reserved pool must be provisioned
// when the company is onboarded. Its absence is a configuration error, never
// fixed by auto-creation here.
var ErrReservedPortfolioMissing = errors.New("Company reserved portfolio not found")

// Reserved returns the single company-reserved portfolio for a company.
// Callers inside a settlement pass their transaction handle so the row is
// read under the same transaction that later debits it.
func Reserved(tx *gorm.DB, companyID uuid.UUID) (*models.Portfolio, error) {
	var p models.Portfolio
	err := tx.Where("company_id = ? AND portfolio_type = ?", companyID, models.PortfolioTypeCompanyReserved).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: company %s", ErrReservedPortfolioMissing, companyID)
		}
		return nil, err
	}
	return &p, nil
}

// ResolveEmployeeVested returns the employee's vested portfolio for
// (company, employee), provisioning it with zero balances if absent.
// Provisioning is an atomic insert-if-absent: the ON CONFLICT DO NOTHING
// against the (company, employee, type) unique index means two concurrent
// first-settlements cannot create two rows, and the refetch returns
// whichever insert won.
func ResolveEmployeeVested(tx *gorm.DB, companyID, employeeID uuid.UUID, employeeNumber string) (*models.Portfolio, error) {
	fresh := models.Portfolio{
		PortfolioType:   models.PortfolioTypeEmployeeVested,
		CompanyID:       companyID,
		EmployeeID:      &employeeID,
		PortfolioNumber: EmployeePortfolioNumber(employeeNumber),
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var p models.Portfolio
	err := tx.Where("company_id = ? AND employee_id = ? AND portfolio_type = ?",
		companyID, employeeID, models.PortfolioTypeEmployeeVested).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// EmployeePortfolioNumber derives the deterministic human-readable number for
// an employee's vested portfolio from the employee's business identifier.
func EmployeePortfolioNumber(employeeNumber string) string {
	return fmt.Sprintf("PF-%s-V", employeeNumber)
}
