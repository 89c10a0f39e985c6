package grants

import (
	"context"
	"errors"
	"time"

	"vesta-backend/internal/identity"
	"vesta-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrGrantNotFound      = errors.New("Grant not found")
	ErrGrantNotAcceptable = errors.New("Grant is not awaiting signature")
	ErrNotGrantOwner      = errors.New("Grant does not belong to this employee")
)

type Service struct {
	DB *gorm.DB
}

// ViewGrants returns the company's grants, newest first. Employee-scoped
// actors only see their own.
func (s *Service) ViewGrants(ctx context.Context, actor identity.Actor) ([]models.Grant, error) {
	q := s.DB.WithContext(ctx).Where("company_id = ?", actor.CompanyID)
	if actor.EmployeeID != nil {
		q = q.Where("employee_id = ?", *actor.EmployeeID)
	}
	var out []models.Grant
	if err := q.Order(`"createdAt" DESC`).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Accept activates a grant awaiting signature. The compare-and-set on status
// means a double acceptance is rejected, and activation initializes the
// unvested counter so vested + unvested == total from day one.
func (s *Service) Accept(ctx context.Context, actor identity.Actor, grantID uuid.UUID) (*models.Grant, error) {
	var accepted models.Grant

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var grant models.Grant
		if err := tx.Where("grant_id = ? AND company_id = ?", grantID, actor.CompanyID).First(&grant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGrantNotFound
			}
			return err
		}
		if actor.EmployeeID != nil && grant.EmployeeID != *actor.EmployeeID {
			return ErrNotGrantOwner
		}
		if grant.Status != models.GrantStatusPendingSignature {
			return ErrGrantNotAcceptable
		}

		now := time.Now()
		res := tx.Model(&models.Grant{}).
			Where("grant_id = ? AND status = ?", grantID, models.GrantStatusPendingSignature).
			Updates(map[string]interface{}{
				"status":          models.GrantStatusActive,
				"unvested_shares": grant.TotalShares - grant.VestedShares,
				"granted_at":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrGrantNotAcceptable
		}
		return tx.Where("grant_id = ?", grantID).First(&accepted).Error
	})
	if err != nil {
		return nil, err
	}
	return &accepted, nil
}
