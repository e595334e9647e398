package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kamuxx/reservas-api/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated user
// has one of the given roles. It assumes JWTAuth already stored the "role"
// claim in the context; requests with a missing or disallowed role are
// rejected with 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, ok := c.Get("role").(string)
			if !ok || !allowed[model.ParseRole(v)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
