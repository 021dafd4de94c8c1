package middlewares

import (
	"net/http"

	"personal-blog/app/server/constants"
	"personal-blog/app/server/policy"
	"personal-blog/app/server/types"

	"github.com/labstack/echo/v4"
)

func authorize(cfg *AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			access := cfg.Policy.Classify(c.Request().Method, c.Request().URL.Path)
			if access == policy.Public {
				return next(c)
			}

			id := GetIdentity(c)
			if id == nil {
				cfg.countRejection("unauthenticated")
				return c.JSON(http.StatusUnauthorized, &types.Result{
					Code:    http.StatusUnauthorized,
					Message: constants.MsgTokenInvalid,
				})
			}

			if access == policy.Admin && !id.Principal.IsAdmin() {
				cfg.countRejection("forbidden")
				return c.JSON(http.StatusForbidden, &types.Result{
					Code:    http.StatusForbidden,
					Message: constants.MsgForbidden,
				})
			}

			return next(c)
		}
	}
}
