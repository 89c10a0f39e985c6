package portfolios

import (
	"context"

	"vesta-backend/internal/identity"
	"vesta-backend/internal/models"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// ViewPortfolios returns the actor's company portfolios: the reserved pool
// plus every employee-vested account. Employee-scoped actors only see their
// own vested portfolio.
func (s *Service) ViewPortfolios(ctx context.Context, actor identity.Actor) ([]models.Portfolio, error) {
	q := s.DB.WithContext(ctx).Where("company_id = ?", actor.CompanyID)
	if actor.EmployeeID != nil {
		q = q.Where("portfolio_type = ? OR employee_id = ?", models.PortfolioTypeCompanyReserved, *actor.EmployeeID)
	}

	var out []models.Portfolio
	if err := q.Order("portfolio_type ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
