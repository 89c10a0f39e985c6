package vesting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"vesta-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlersApp(f *fixture, withSession bool) *fiber.App {
	app := fiber.New()
	if withSession {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", map[string]interface{}{
				"user_id":    f.actor.UserID.String(),
				"company_id": f.company.CompanyID.String(),
				"role":       f.actor.Role,
			})
			return c.Next()
		})
	}
	h := &Handlers{Service: f.svc}
	app.Get("/api/v1/vesting/get-events", h.GetEvents)
	app.Get("/api/v1/vesting/get-stats", h.GetStats)
	app.Post("/api/v1/vesting/confirm-event", h.ConfirmEvent)
	app.Post("/api/v1/vesting/settle-event", h.SettleEvent)
	app.Post("/api/v1/vesting/exercise-event", h.ExerciseEvent)
	app.Post("/api/v1/vesting/forfeit-event", h.ForfeitEvent)
	app.Post("/api/v1/vesting/cancel-event", h.CancelEvent)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestSettleEventHandler(t *testing.T) {
	f := setupFixture(t, models.PlanTypeRSU)
	ev := f.createEvent(t, models.EventStatusVested, 2500, 1)
	app := setupHandlersApp(f, true)

	code, body := postJSON(t, app, "/api/v1/vesting/settle-event", fiber.Map{"event_id": ev.EventID.String()})
	assert.Equal(t, 200, code)
	assert.Equal(t, "success", body["status"])

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 2500.0, data["shares_transferred"])
	assert.Contains(t, data["transfer_number"], "TRF-")
}

func TestSettleEventHandlerInvalidUUID(t *testing.T) {
	f := setupFixture(t, models.PlanTypeRSU)
	app := setupHandlersApp(f, true)

	code, body := postJSON(t, app, "/api/v1/vesting/settle-event", fiber.Map{"event_id": "not-a-uuid"})
	assert.Equal(t, 400, code)
	assert.Equal(t, "error", body["status"])
}

func TestSettleEventHandlerConflictOnReplay(t *testing.T) {
	f := setupFixture(t, models.PlanTypeRSU)
	ev := f.createEvent(t, models.EventStatusVested, 1000, 1)
	app := setupHandlersApp(f, true)

	code, _ := postJSON(t, app, "/api/v1/vesting/settle-event", fiber.Map{"event_id": ev.EventID.String()})
	require.Equal(t, 200, code)

	code, body := postJSON(t, app, "/api/v1/vesting/settle-event", fiber.Map{"event_id": ev.EventID.String()})
	assert.Equal(t, 409, code)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, ErrAlreadyProcessed.Error(), errObj["message"])
}

func TestSettleEventHandlerUnauthenticated(t *testing.T) {
	f := setupFixture(t, models.PlanTypeRSU)
	ev := f.createEvent(t, models.EventStatusVested, 1000, 1)
	app := setupHandlersApp(f, false)

	code, body := postJSON(t, app, "/api/v1/vesting/settle-event", fiber.Map{"event_id": ev.EventID.String()})
	assert.Equal(t, 401, code)
	assert.Equal(t, "error", body["status"])
}

func TestExerciseEventHandler(t *testing.T) {
	f := setupFixture(t, models.PlanTypeESOP)
	ev := f.createEvent(t, models.EventStatusVested, 1000, 1)
	require.NoError(t, f.db.Model(&models.VestingEvent{}).Where("event_id = ?", ev.EventID).Update("exercise_price", 4.50).Error)
	app := setupHandlersApp(f, true)

	code, body := postJSON(t, app, "/api/v1/vesting/exercise-event", fiber.Map{
		"event_id": ev.EventID.String(),
		"shares":   400,
	})
	assert.Equal(t, 200, code)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 400.0, data["shares_exercised"])
	assert.Equal(t, 1800.0, data["total_exercise_cost"])
}

func TestConfirmEventHandlerPerformanceRejection(t *testing.T) {
	f := setupFixture(t, models.PlanTypeRSU)
	metric := models.PerformanceMetric{GrantID: f.grant.GrantID, Name: "Revenue target"}
	require.NoError(t, f.db.Create(&metric).Error)
	ev := models.VestingEvent{
		GrantID:      f.grant.GrantID,
		EmployeeID:   f.employee.EmployeeID,
		CompanyID:    f.company.CompanyID,
		EventType:    models.EventTypePerformance,
		VestingDate:  time.Now(),
		SharesToVest: 500,
		Status:       models.EventStatusDue,
	}
	require.NoError(t, f.db.Create(&ev).Error)
	app := setupHandlersApp(f, true)

	code, body := postJSON(t, app, "/api/v1/vesting/confirm-event", fiber.Map{"event_id": ev.EventID.String()})
	assert.Equal(t, 400, code)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, ErrPerformanceConfirmationRequired.Error(), errObj["message"])
}

func TestGetStatsHandler(t *testing.T) {
	f := setupFixture(t, models.PlanTypeRSU)
	f.createEvent(t, models.EventStatusDue, 100, 1)
	app := setupHandlersApp(f, true)

	req := httptest.NewRequest("GET", "/api/v1/vesting/get-stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.0, data["due_events"])
	assert.Equal(t, 100.0, data["total_due_shares"])
}

func TestForfeitEventHandler(t *testing.T) {
	f := setupFixture(t, models.PlanTypeRSU)
	ev := f.createEvent(t, models.EventStatusDue, 100, 1)
	app := setupHandlersApp(f, true)

	code, body := postJSON(t, app, "/api/v1/vesting/forfeit-event", fiber.Map{
		"event_id": ev.EventID.String(),
		"reason":   "employment ended",
	})
	assert.Equal(t, 200, code)
	assert.Equal(t, "success", fmt.Sprint(body["status"]))
	assert.Equal(t, models.EventStatusForfeited, f.reloadEvent(t, ev.EventID).Status)
}
