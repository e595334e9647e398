package handler

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kamuxx/reservas-api/internal/model"
)

// getUserUUID extracts the authenticated user's UUID from the context, where
// the JWT middleware stored it under "user_id".
func getUserUUID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && strings.TrimSpace(s) != "" {
		return s, nil
	}
	return "", errors.New("invalid user_id in context")
}

// getRole extracts the authenticated user's role from the context. Missing or
// malformed claims degrade to the least-privileged role.
func getRole(c echo.Context) model.Role {
	if s, ok := c.Get("role").(string); ok {
		return model.ParseRole(s)
	}
	return model.RoleUser
}
