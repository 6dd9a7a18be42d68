package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/pkg/cookies"
	"github.com/Skotchmaster/techstore/pkg/logging"
	"github.com/Skotchmaster/techstore/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"

	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// UserChecker reports whether the token subject still maps to an active account.
type UserChecker interface {
	IsActiveUser(ctx context.Context, id string) (bool, error)
}

type Authenticator struct {
	JWTSecret     []byte
	Users         UserChecker
	SecureCookies bool
}

func NewAuthenticator(secret []byte, users UserChecker) *Authenticator {
	return &Authenticator{JWTSecret: secret, Users: users}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if ck, err := c.Cookie(cookies.AccessToken); err == nil {
		return ck.Value
	}
	return ""
}

func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth")

		raw := bearerToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, a.JWTSecret)
		if err != nil || claims == nil || claims.Subject == "" {
			c.SetCookie(cookies.DeleteCookie(cookies.AccessToken, "/", a.SecureCookies))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		if a.Users != nil {
			active, err := a.Users.IsActiveUser(ctx, claims.Subject)
			if err != nil {
				l.Error("auth_error", "status", 500, "reason", "cannot load user", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "authentication failed")
			}
			if !active {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not found or deactivated")
			}
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)

		return next(c)
	}
}

// RequireRole must be chained after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !slices.Contains(roles, role) {
				return echo.NewHTTPError(http.StatusForbidden, "user role "+role+" is not authorized to access this route")
			}
			return next(c)
		}
	}
}

func (a *Authenticator) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return a.RequireAuth(RequireRole(RoleAdmin)(next))
}
