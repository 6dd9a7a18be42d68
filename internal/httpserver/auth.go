package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/cookies"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

type AuthHTTP struct {
	Svc           *service.AuthService
	SecureCookies bool
}

func setSession(c echo.Context, res *transport.LoginResult, secure bool) {
	c.SetCookie(cookies.CreateCookie(cookies.AccessToken, res.AccessToken, "/", res.AccessExp, secure))
	c.SetCookie(cookies.CreateCookie(cookies.RefreshToken, res.RefreshToken, "/", res.RefreshExp, secure))
}

func clearSession(c echo.Context, secure bool) {
	c.SetCookie(cookies.DeleteCookie(cookies.AccessToken, "/", secure))
	c.SetCookie(cookies.DeleteCookie(cookies.RefreshToken, "/", secure))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register", "invalid body", err)
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register", err)
	}

	setSession(c, res, h.SecureCookies)
	l.Info("register_success", "user_id", res.User.ID.String())
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login", "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}

	setSession(c, res, h.SecureCookies)
	l.Info("login_success", "user_id", res.User.ID.String())
	return c.JSON(http.StatusOK, res)
}

func refreshToken(c echo.Context) string {
	if ck, err := c.Cookie(cookies.RefreshToken); err == nil && ck.Value != "" {
		return ck.Value
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.Bind(&body)
	return body.RefreshToken
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	token := refreshToken(c)
	if token == "" {
		l.Warn("refresh_error", "status", 401, "reason", "missing refresh token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	res, err := h.Svc.Refresh(ctx, token)
	if err != nil {
		clearSession(c, h.SecureCookies)
		return fail(l, "refresh", err)
	}

	setSession(c, res, h.SecureCookies)
	l.Info("refresh_success")
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Svc.Logout(ctx, refreshToken(c)); err != nil {
		clearSession(c, h.SecureCookies)
		l.Error("logout_error", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot revoke refresh token")
	}

	clearSession(c, h.SecureCookies)
	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	user, err := h.Svc.Me(ctx, uid)
	if err != nil {
		return fail(l, "me", err)
	}
	return c.JSON(http.StatusOK, user)
}
