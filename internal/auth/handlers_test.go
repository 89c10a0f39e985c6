package auth

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"vesta-backend/internal/middleware"
	"vesta-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	user *models.User
	err  error
}

func (s *stubFinder) FindByEmailAndPassword(email, password string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func setupAuthApp(t *testing.T, finder UserFinder) (*fiber.App, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	h := &Handlers{UserFinder: finder, Rdb: rdb, Config: middleware.SessionConfig{}}
	app := fiber.New()
	app.Post("/api/v1/auth/login", h.Login)
	app.Get("/api/v1/auth/me", h.Me)
	app.Delete("/api/v1/auth/logout", h.Logout)
	return app, rdb
}

func TestLoginHandlerSetsSessionCookie(t *testing.T) {
	companyID := uuid.New()
	user := &models.User{
		UserID:    uuid.New(),
		Fullname:  "Ada Osei",
		Email:     "ada@example.com",
		Role:      "admin",
		CompanyID: &companyID,
	}
	app, rdb := setupAuthApp(t, &stubFinder{user: user})

	body, _ := json.Marshal(fiber.Map{"email": "ada@example.com", "password": "correct horse"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var sessionCookie string
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c.Value
		}
	}
	require.NotEmpty(t, sessionCookie)

	members, err := rdb.SMembers(req.Context(), userSessionsPrefix+user.UserID.String()).Result()
	require.NoError(t, err)
	assert.Contains(t, members, sessionCookie)
}

func TestLoginHandlerRejectsBadCredentials(t *testing.T) {
	app, _ := setupAuthApp(t, &stubFinder{err: ErrIncorrectPassword})

	body, _ := json.Marshal(fiber.Map{"email": "ada@example.com", "password": "wrong"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 401, resp.StatusCode)
}

func TestLoginHandlerRequiresFields(t *testing.T) {
	app, _ := setupAuthApp(t, &stubFinder{})

	body, _ := json.Marshal(fiber.Map{"email": "", "password": ""})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 400, resp.StatusCode)
}

func TestMeHandlerUnauthenticated(t *testing.T) {
	app, _ := setupAuthApp(t, &stubFinder{})

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 401, resp.StatusCode)
}
