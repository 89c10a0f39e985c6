package portfolios

import (
	"testing"

	"vesta-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Portfolio{}))
	return db
}

func TestReserved(t *testing.T) {
	db := newTestDB(t)
	companyID := uuid.New()
	pool := models.Portfolio{
		PortfolioType:   models.PortfolioTypeCompanyReserved,
		CompanyID:       companyID,
		PortfolioNumber: "PF-ACME-R",
		TotalShares:     50000,
		AvailableShares: 50000,
	}
	require.NoError(t, db.Create(&pool).Error)

	got, err := Reserved(db, companyID)
	require.NoError(t, err)
	assert.Equal(t, pool.PortfolioID, got.PortfolioID)
	assert.Equal(t, 50000.0, got.AvailableShares)
}

func TestReservedMissing(t *testing.T) {
	db := newTestDB(t)
	companyID := uuid.New()

	_, err := Reserved(db, companyID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReservedPortfolioMissing)
	assert.Contains(t, err.Error(), companyID.String())
}

func TestResolveEmployeeVestedProvisionsOnce(t *testing.T) {
	db := newTestDB(t)
	companyID := uuid.New()
	employeeID := uuid.New()

	first, err := ResolveEmployeeVested(db, companyID, employeeID, "EMP-042")
	require.NoError(t, err)
	assert.Equal(t, "PF-EMP-042-V", first.PortfolioNumber)
	assert.Equal(t, 0.0, first.TotalShares)
	assert.Equal(t, 0.0, first.AvailableShares)

	second, err := ResolveEmployeeVested(db, companyID, employeeID, "EMP-042")
	require.NoError(t, err)
	assert.Equal(t, first.PortfolioID, second.PortfolioID)

	var n int64
	require.NoError(t, db.Model(&models.Portfolio{}).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestResolveEmployeeVestedKeepsExistingBalances(t *testing.T) {
	db := newTestDB(t)
	companyID := uuid.New()
	employeeID := uuid.New()
	existing := models.Portfolio{
		PortfolioType:   models.PortfolioTypeEmployeeVested,
		CompanyID:       companyID,
		EmployeeID:      &employeeID,
		PortfolioNumber: "PF-EMP-042-V",
		TotalShares:     750,
		AvailableShares: 750,
	}
	require.NoError(t, db.Create(&existing).Error)

	got, err := ResolveEmployeeVested(db, companyID, employeeID, "EMP-042")
	require.NoError(t, err)
	assert.Equal(t, existing.PortfolioID, got.PortfolioID)
	assert.Equal(t, 750.0, got.AvailableShares)
}

func TestEmployeePortfolioNumber(t *testing.T) {
	assert.Equal(t, "PF-EMP-007-V", EmployeePortfolioNumber("EMP-007"))
}
