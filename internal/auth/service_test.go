package auth

import (
	"testing"

	"vesta-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	companyID := uuid.New()
	u := models.User{
		Fullname:     "Ada Osei",
		Email:        email,
		PasswordHash: string(hash),
		CompanyID:    &companyID,
		Role:         "admin",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestLoginUser(t *testing.T) {
	db := newTestDB(t)
	seeded := seedUser(t, db, "ada@example.com", "correct horse")

	u, err := LoginUser(db, LoginInput{Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, seeded.UserID, u.UserID)
}

func TestLoginUserWrongPassword(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ada@example.com", "correct horse")

	_, err := LoginUser(db, LoginInput{Email: "ada@example.com", Password: "battery staple"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestLoginUserUnknownEmail(t *testing.T) {
	db := newTestDB(t)

	_, err := LoginUser(db, LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestLoginUserMissingFields(t *testing.T) {
	db := newTestDB(t)

	_, err := LoginUser(db, LoginInput{Email: "", Password: ""})
	assert.ErrorIs(t, err, ErrEmailPasswordRequired)
}

func TestVerifyUser(t *testing.T) {
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	shape, err := VerifyUser(map[string]interface{}{
		"user_id":     uuid.New().String(),
		"fullname":    "Ada Osei",
		"email":       "ada@example.com",
		"role":        "employee",
		"company_id":  companyID,
		"employee_id": employeeID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Osei", shape.Fullname)
	require.NotNil(t, shape.CompanyID)
	assert.Equal(t, companyID, *shape.CompanyID)
	require.NotNil(t, shape.EmployeeID)
	assert.Equal(t, employeeID, *shape.EmployeeID)
}

func TestVerifyUserRejectsMissingSession(t *testing.T) {
	for _, bad := range []interface{}{nil, "nope", map[string]interface{}{}} {
		_, err := VerifyUser(bad)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	}
}
