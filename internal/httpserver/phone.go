package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

type PhoneHTTP struct {
	Svc           *service.PhoneService
	SecureCookies bool
}

func (h *PhoneHTTP) SendOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "phone.send_otp")

	var req transport.PhoneRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "send_otp", "invalid body", err)
	}
	if err := h.Svc.SendOTP(ctx, req.PhoneNumber); err != nil {
		return fail(l, "send_otp", err)
	}

	l.Info("send_otp_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent successfully"})
}

func (h *PhoneHTTP) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "phone.verify_otp")

	var req transport.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "verify_otp", "invalid body", err)
	}
	if err := h.Svc.VerifyOTP(ctx, req.PhoneNumber, req.OTP); err != nil {
		return fail(l, "verify_otp", err)
	}

	l.Info("verify_otp_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "phone number verified"})
}

func (h *PhoneHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "phone.register")

	var req transport.PhoneRegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "phone_register", "invalid body", err)
	}
	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "phone_register", err)
	}

	setSession(c, res, h.SecureCookies)
	l.Info("phone_register_success", "user_id", res.User.ID.String())
	return c.JSON(http.StatusCreated, res)
}

func (h *PhoneHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "phone.login")

	var req transport.PhoneLoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "phone_login", "invalid body", err)
	}
	res, err := h.Svc.Login(ctx, req.PhoneNumber, req.Password)
	if err != nil {
		return fail(l, "phone_login", err)
	}

	setSession(c, res, h.SecureCookies)
	l.Info("phone_login_success", "user_id", res.User.ID.String())
	return c.JSON(http.StatusOK, res)
}
