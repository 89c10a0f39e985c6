package transfers

import (
	"vesta-backend/internal/identity"
	"vesta-backend/internal/middleware"
	"vesta-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GetTransfers GET /api/v1/transfers/get-transfers
func (h *Handlers) GetTransfers(c *fiber.Ctx) error {
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.ViewTransfers(c.Context(), *actor)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Transfers retrieved", out, nil)
}

// GetUnreconciled GET /api/v1/transfers/get-unreconciled
func (h *Handlers) GetUnreconciled(c *fiber.Ctx) error {
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.Unreconciled(c.Context(), actor.CompanyID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Unreconciled transfers retrieved", out, fiber.Map{"count": len(out)})
}
