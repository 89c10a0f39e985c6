package vesting

import (
	"errors"

	"vesta-backend/internal/identity"
	"vesta-backend/internal/middleware"
	"vesta-backend/internal/pkg/response"
	"vesta-backend/internal/pkg/validation"
	"vesta-backend/internal/portfolios"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

var errorStatus = map[string]int{
	ErrEventNotFound.Error():                   404,
	ErrGrantNotFound.Error():                   404,
	ErrEmployeeNotFound.Error():                404,
	ErrNotTransferablePlan.Error():             400,
	ErrNotExercisablePlan.Error():              400,
	ErrEventNotVested.Error():                  400,
	ErrEventNotDue.Error():                     400,
	ErrAlreadyProcessed.Error():                409,
	ErrInsufficientReservedShares.Error():      400,
	ErrExercisePriceUnavailable.Error():        400,
	ErrInvalidExerciseAmount.Error():           400,
	ErrPerformanceConfirmationRequired.Error(): 400,
	ErrPerformanceConditionNotMet.Error():      400,
}

func respondServiceError(c *fiber.Ctx, err error) error {
	// The missing reserved portfolio is a configuration error; surface it
	// verbatim so the company id reaches whoever has to fix the data.
	if errors.Is(err, portfolios.ErrReservedPortfolioMissing) {
		return response.Error(c, err.Error(), 500, nil)
	}
	if errors.Is(err, ErrIllegalTransition) {
		return response.Error(c, err.Error(), 409, nil)
	}
	if code, ok := errorStatus[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// GetEvents GET /api/v1/vesting/get-events
func (h *Handlers) GetEvents(c *fiber.Ctx) error {
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	events, err := h.Service.ListEvents(c.Context(), *actor)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Vesting events retrieved", events, nil)
}

// GetStats GET /api/v1/vesting/get-stats
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	stats, err := h.Service.Stats(c.Context(), actor.CompanyID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Vesting stats retrieved", stats, nil)
}

// ConfirmEvent POST /api/v1/vesting/confirm-event
func (h *Handlers) ConfirmEvent(c *fiber.Ctx) error {
	var body struct {
		EventID      string  `json:"event_id"`
		ConditionMet *bool   `json:"condition_met"`
		Notes        *string `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "event_id is required", 400, nil)
	}
	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for event_id", 400, nil)
	}
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.Service.ConfirmVesting(c.Context(), *actor, eventID, body.ConditionMet, body.Notes); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Vesting event confirmed", fiber.Map{"event_id": eventID}, nil)
}

// SettleEvent POST /api/v1/vesting/settle-event
func (h *Handlers) SettleEvent(c *fiber.Ctx) error {
	var body struct {
		EventID string `json:"event_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "event_id is required", 400, nil)
	}
	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for event_id", 400, nil)
	}
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.Service.Settle(c.Context(), *actor, eventID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Vesting event settled", result, nil)
}

// ExerciseEvent POST /api/v1/vesting/exercise-event
func (h *Handlers) ExerciseEvent(c *fiber.Ctx) error {
	var body struct {
		EventID string   `json:"event_id"`
		Shares  *float64 `json:"shares"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "event_id is required", 400, nil)
	}
	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for event_id", 400, nil)
	}
	if body.Shares != nil && !validation.IsValidShareAmount(*body.Shares) {
		return response.Error(c, ErrInvalidExerciseAmount.Error(), 400, nil)
	}
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.Service.Exercise(c.Context(), *actor, eventID, body.Shares)
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Vesting event exercised", result, nil)
}

// ForfeitEvent POST /api/v1/vesting/forfeit-event
func (h *Handlers) ForfeitEvent(c *fiber.Ctx) error {
	return h.terminateEvent(c, "forfeit")
}

// CancelEvent POST /api/v1/vesting/cancel-event
func (h *Handlers) CancelEvent(c *fiber.Ctx) error {
	return h.terminateEvent(c, "cancel")
}

func (h *Handlers) terminateEvent(c *fiber.Ctx, action string) error {
	var body struct {
		EventID string `json:"event_id"`
		Reason  string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "event_id is required", 400, nil)
	}
	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for event_id", 400, nil)
	}
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	if action == "forfeit" {
		err = h.Service.Forfeit(c.Context(), *actor, eventID, body.Reason)
	} else {
		err = h.Service.Cancel(c.Context(), *actor, eventID, body.Reason)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Vesting event updated", fiber.Map{"event_id": eventID}, nil)
}
