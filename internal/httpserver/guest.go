package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

type GuestHTTP struct {
	Svc           *service.GuestService
	SecureCookies bool
}

func (h *GuestHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest.order")

	var req transport.GuestOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "guest_order", "invalid body", err)
	}

	res, err := h.Svc.PlaceGuestOrder(ctx, req)
	if err != nil {
		return fail(l, "guest_order", err)
	}

	l.Info("guest_order_success", "order_number", res.Order.OrderNumber)
	return c.JSON(http.StatusCreated, res)
}

func (h *GuestHTTP) TrackOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest.track")

	var (
		view *transport.GuestOrderView
		err  error
	)
	email := c.QueryParam("email")
	if token := bearer(c); email == "" && token != "" {
		view, err = h.Svc.TrackWithToken(ctx, c.Param("orderNumber"), token)
	} else {
		view, err = h.Svc.TrackGuestOrder(ctx, c.Param("orderNumber"), email)
	}
	if err != nil {
		return fail(l, "guest_track", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *GuestHTTP) ConvertToAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "guest.convert")

	var req transport.ConvertGuestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "guest_convert", "invalid body", err)
	}

	res, err := h.Svc.ConvertToAccount(ctx, req)
	if err != nil {
		return fail(l, "guest_convert", err)
	}

	setSession(c, res, h.SecureCookies)
	l.Info("guest_convert_success", "user_id", res.User.ID.String())
	return c.JSON(http.StatusOK, res)
}

func bearer(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
