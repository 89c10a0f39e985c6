package health

import (
	"context"

	"vesta-backend/internal/middleware"
	"vesta-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Rdb            *redis.Client
	DB             DBPinger
	HealthAdminKey string
}

// JSON GET /health/json — machine-readable health payload.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := CollectHealth(context.Background(), h.Rdb, h.DB)
	return c.JSON(result)
}

// Reset GET /health/reset — clears the Redis request counters. Requires the
// admin key when one is configured.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.HealthAdminKey != "" && c.Query("key") != h.HealthAdminKey {
		return response.Error(c, "Forbidden", fiber.StatusForbidden, nil)
	}
	if h.Rdb != nil {
		ctx := context.Background()
		h.Rdb.Del(ctx,
			middleware.KeyReqTotal,
			middleware.KeyReqErrors,
			middleware.KeyResTime,
			middleware.KeyResCount,
			middleware.KeyStartTime,
			middleware.KeyLastReq,
		)
	}
	return response.Success(c, "Health counters reset", nil, nil)
}
