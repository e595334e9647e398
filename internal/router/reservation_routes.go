package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kamuxx/reservas-api/internal/config"
	"github.com/kamuxx/reservas-api/internal/handler"
	"github.com/kamuxx/reservas-api/internal/middleware"
)

// RegisterReservations registers the reservation endpoints under /v1. All
// routes require a valid JWT; ownership and role checks happen in the
// handlers, since admins may act on other users' reservations. The token
// bucket limiter guards admission, the contended path.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.NewTokenBucket(rlCfg, rdb),
	)
	g.POST("/reservations", h.Create)
	g.GET("/reservations/:id", h.Get)
	g.DELETE("/reservations/:id", h.Cancel)
	g.GET("/my-reservations", h.ListMine)
}
