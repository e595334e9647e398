package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kamuxx/reservas-api/internal/config"
	"github.com/kamuxx/reservas-api/internal/handler"
	"github.com/kamuxx/reservas-api/internal/middleware"
	"github.com/kamuxx/reservas-api/internal/model"
)

// RegisterSpaces registers the space catalog endpoints under /v1. Browse
// endpoints require a valid JWT of any role and are cached in Redis; catalog
// mutations are admin-only and bypass the cache.
func RegisterSpaces(e *echo.Echo, h *handler.SpaceHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	browse := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.NewRedisCache(cacheCfg, rdb),
	)
	// /spaces/available must be registered before /spaces/:id so Echo does
	// not treat "available" as a space UUID.
	browse.GET("/spaces/available", h.ListAvailable)
	browse.GET("/spaces", h.List)
	browse.GET("/spaces/:id", h.Get)
	browse.GET("/spaces/:id/occupied", h.OccupiedSlots)

	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.POST("/spaces", h.Create)
	admin.PATCH("/spaces/:id", h.Update)
}
