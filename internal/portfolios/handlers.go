package portfolios

import (
	"vesta-backend/internal/identity"
	"vesta-backend/internal/middleware"
	"vesta-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// ViewPortfolios GET /api/v1/portfolios/view-portfolios
func (h *Handlers) ViewPortfolios(c *fiber.Ctx) error {
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.ViewPortfolios(c.Context(), *actor)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Portfolios retrieved", out, nil)
}
