package grants

import (
	"vesta-backend/internal/identity"
	"vesta-backend/internal/middleware"
	"vesta-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// ViewGrants GET /api/v1/grants/view-grants
func (h *Handlers) ViewGrants(c *fiber.Ctx) error {
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.ViewGrants(c.Context(), *actor)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Grants retrieved", out, nil)
}

// AcceptGrant POST /api/v1/grants/accept-grant
func (h *Handlers) AcceptGrant(c *fiber.Ctx) error {
	var body struct {
		GrantID string `json:"grant_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "grant_id is required", 400, nil)
	}
	grantID, err := uuid.Parse(body.GrantID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for grant_id", 400, nil)
	}
	actor, err := identity.FromSession(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	grant, err := h.Service.Accept(c.Context(), *actor, grantID)
	if err != nil {
		statusMap := map[string]int{
			ErrGrantNotFound.Error():      404,
			ErrGrantNotAcceptable.Error(): 400,
			ErrNotGrantOwner.Error():      403,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Grant accepted", grant, nil)
}
