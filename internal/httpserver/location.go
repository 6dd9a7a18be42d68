package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/location"
	"github.com/Skotchmaster/techstore/internal/pricing"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

type LocationHTTP struct {
	Estimator *location.Estimator
}

func (h *LocationHTTP) ShippingCost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "location.shipping_cost")

	var req transport.ShippingCostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "shipping_cost", "invalid body", err)
	}
	addr := strings.TrimSpace(req.Address)
	if addr == "" {
		return badRequest(l, "shipping_cost", "address is required", nil)
	}

	opt, err := pricing.NormalizeDeliveryOption(req.DeliveryOption)
	if err != nil {
		return badRequest(l, "shipping_cost", "unknown delivery option", err)
	}

	q := h.Estimator.Quote(ctx, addr, req.OrderValue, opt)
	return c.JSON(http.StatusOK, q)
}

func (h *LocationHTTP) NearestStore(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "location.nearest_store")

	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "nearest_store", "invalid body", err)
	}
	addr := strings.TrimSpace(req.Address)
	if addr == "" {
		return badRequest(l, "nearest_store", "address is required", nil)
	}

	store, err := h.Estimator.NearestStore(ctx, addr)
	if err != nil {
		if errors.Is(err, location.ErrAddressNotFound) {
			l.Warn("nearest_store_error", "status", 404, "reason", "address not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "address not found")
		}
		return fail(l, "nearest_store", err)
	}
	return c.JSON(http.StatusOK, store)
}

func (h *LocationHTTP) Stores(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "location.stores")

	stores, err := h.Estimator.Stores(ctx)
	if err != nil {
		return fail(l, "stores", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": stores})
}

func (h *LocationHTTP) ShippingZones(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"data": location.Zones()})
}

func (h *LocationHTTP) ValidateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "location.validate_address")

	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "validate_address", "invalid body", err)
	}
	addr := strings.TrimSpace(req.Address)
	if addr == "" {
		return badRequest(l, "validate_address", "address is required", nil)
	}

	geo, err := h.Estimator.Validate(ctx, addr)
	if err != nil {
		if errors.Is(err, location.ErrAddressNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"valid": false})
		}
		return fail(l, "validate_address", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid":             true,
		"formatted_address": geo.FormattedAddress,
		"coordinates":       geo.Coordinates(),
	})
}
