package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-records/core"
)

// roleMiddleware lets through staff holding any of roles; admins always pass.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := getContextIdentity(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context identity")
			}
			if id.IsAdmin() {
				return next(ctx)
			}
			for _, role := range roles {
				if id.HasRole(role) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(core.RoleAdmin)
}

func staffMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(core.RoleStaff)
}
