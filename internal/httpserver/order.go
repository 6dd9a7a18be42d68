package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/internal/util"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order", "invalid body", err)
	}

	order, err := h.Svc.PlaceOrder(ctx, req, uid)
	if err != nil {
		return fail(l, "create_order", err)
	}

	l.Info("create_order_success", "order_number", order.OrderNumber, "final_amount", order.FinalAmount.String())
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	p, offset, limit := page(c)

	total, items, err := h.Svc.ListOrders(ctx, uid, offset, limit)
	if err != nil {
		return fail(l, "my_orders", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items, "meta": util.Meta(p, limit, total)})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "get_order", "id is not a uuid", err)
	}

	order, err := h.Svc.GetOrder(ctx, id, uid)
	if err != nil {
		return fail(l, "get_order", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "update_order_status", "id is not a uuid", err)
	}
	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_order_status", "invalid body", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req)
	if err != nil {
		return fail(l, "update_order_status", err)
	}

	l.Info("update_order_status_success", "order_number", order.OrderNumber, "order_status", string(order.Status))
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "cancel_order", "id is not a uuid", err)
	}

	order, err := h.Svc.CancelOrder(ctx, id, uid)
	if err != nil {
		return fail(l, "cancel_order", err)
	}

	l.Info("cancel_order_success", "order_number", order.OrderNumber)
	return c.JSON(http.StatusOK, order)
}
