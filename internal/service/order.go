package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/location"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/notify"
	"github.com/Skotchmaster/techstore/internal/ordernum"
	"github.com/Skotchmaster/techstore/internal/pricing"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

const fallbackDeliveryDays = 3

type ProductIndexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
}

type ShippingQuoter interface {
	Quote(ctx context.Context, address string, orderValue decimal.Decimal, opt models.DeliveryOption) location.Quote
}

type OrderService struct {
	Repo     *repo.GormRepo
	Numbers  *ordernum.Generator
	Notifier notify.Notifier
	Events   events.Publisher
	Index    ProductIndexer
	Shipping ShippingQuoter
	Now      func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// placement carries what differs between member and guest checkout.
type placement struct {
	userID     *uuid.UUID
	guest      bool
	guestEmail string
}

func validateAddress(a *models.Address, name string) error {
	if a == nil {
		return fmt.Errorf("%w: %s is required", ErrValidation, name)
	}
	fields := []struct{ key, val string }{
		{"first_name", a.FirstName},
		{"last_name", a.LastName},
		{"email", a.Email},
		{"phone", a.Phone},
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"zip_code", a.ZipCode},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s missing %s", ErrValidation, name, strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return fmt.Errorf("%w: %s email is invalid", ErrValidation, name)
	}
	return nil
}

func validateOrderRequest(req *transport.CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	for i, it := range req.Items {
		if it.ProductID == uuid.Nil {
			return fmt.Errorf("%w: items[%d].product_id required", ErrValidation, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be > 0", ErrValidation, i)
		}
	}
	if err := validateAddress(req.ShippingAddress, "shipping_address"); err != nil {
		return err
	}
	if req.BillingAddress == nil {
		return fmt.Errorf("%w: billing_address is required", ErrValidation)
	}
	if req.PaymentMethod == "" {
		return fmt.Errorf("%w: payment_method is required", ErrValidation)
	}
	if !req.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment_method %q", ErrValidation, req.PaymentMethod)
	}
	return nil
}

// checkLines validates every item against the catalog in request order and
// returns the snapshots, priced lines and per-product stock changes.
func checkLines(items []transport.CreateOrderItem, products map[uuid.UUID]models.Product) ([]models.OrderItem, []pricing.Line, []repo.StockChange, error) {
	snapshots := make([]models.OrderItem, 0, len(items))
	lines := make([]pricing.Line, 0, len(items))
	wanted := make(map[uuid.UUID]int, len(items))
	var changes []repo.StockChange

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, nil, nil, &ProductNotFoundError{ProductID: it.ProductID}
		}
		if !p.IsActive {
			return nil, nil, nil, &ProductInactiveError{ProductID: p.ID, Name: p.Name}
		}
		if _, seen := wanted[p.ID]; !seen {
			changes = append(changes, repo.StockChange{ProductID: p.ID})
		}
		wanted[p.ID] += it.Quantity
		if wanted[p.ID] > p.Stock {
			return nil, nil, nil, &InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.Stock}
		}

		snapshots = append(snapshots, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Discount:  p.Discount,
			Quantity:  it.Quantity,
			Image:     p.Image,
			Brand:     p.Brand,
			Category:  p.Category,
		})
		lines = append(lines, pricing.Line{Price: p.Price, DiscountPercent: p.Discount, Quantity: it.Quantity})
	}

	for i := range changes {
		changes[i].Quantity = wanted[changes[i].ProductID]
	}
	return snapshots, lines, changes, nil
}

func lineItemError(se *repo.StockShortageError) error {
	switch {
	case !se.Exists:
		return &ProductNotFoundError{ProductID: se.ProductID}
	case !se.Active:
		return &ProductInactiveError{ProductID: se.ProductID, Name: se.Name}
	default:
		return &InsufficientStockError{ProductID: se.ProductID, Name: se.Name, Available: se.Available}
	}
}

func (s *OrderService) estimatedDelivery(ctx context.Context, addr *models.Address, subtotal decimal.Decimal, opt models.DeliveryOption) time.Time {
	days := fallbackDeliveryDays
	if s.Shipping != nil {
		if q := s.Shipping.Quote(ctx, addr.OneLine(), subtotal, opt); q.EstimatedDays > 0 {
			days = q.EstimatedDays
		}
	}
	return s.now().AddDate(0, 0, days)
}

func (s *OrderService) place(ctx context.Context, req transport.CreateOrderRequest, pl placement) (*models.Order, error) {
	if err := validateOrderRequest(&req); err != nil {
		return nil, err
	}
	opt, err := pricing.NormalizeDeliveryOption(req.DeliveryOption)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	snapshots, lines, changes, err := checkLines(req.Items, products)
	if err != nil {
		return nil, err
	}

	totals, err := pricing.Compute(lines, opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	numbers := s.Numbers
	if numbers == nil {
		numbers = ordernum.New()
	}
	var number string
	if pl.guest {
		number, err = numbers.Guest()
	} else {
		number, err = numbers.Order()
	}
	if err != nil {
		return nil, err
	}

	payment := models.PaymentPaid
	if req.PaymentMethod == models.PaymentCashOnDelivery {
		payment = models.PaymentPending
	}

	notes := req.CustomerNotes
	if notes == "" {
		notes = "Delivery: " + string(opt)
		if pl.guest {
			notes = "Guest order - " + notes
		}
	}

	eta := s.estimatedDelivery(ctx, req.ShippingAddress, totals.Subtotal, opt)

	order := &models.Order{
		OrderNumber:       number,
		UserID:            pl.userID,
		Items:             snapshots,
		Subtotal:          totals.Subtotal,
		Discount:          totals.Discount,
		ShippingFee:       totals.ShippingFee,
		Tax:               totals.Tax,
		FinalAmount:       totals.FinalAmount,
		Status:            models.OrderConfirmed,
		PaymentStatus:     payment,
		PaymentMethod:     req.PaymentMethod,
		DeliveryOption:    opt,
		ShippingAddress:   *req.ShippingAddress,
		BillingAddress:    *req.BillingAddress,
		CustomerNotes:     notes,
		EstimatedDelivery: &eta,
		IsGuestOrder:      pl.guest,
	}

	if err := s.Repo.PlaceOrder(ctx, order, changes); err != nil {
		var se *repo.StockShortageError
		switch {
		case errors.As(err, &se):
			return nil, lineItemError(se)
		case errors.Is(err, repo.ErrDuplicate):
			return nil, fmt.Errorf("%w: order number %s already exists, retry", ErrConflict, number)
		default:
			return nil, fmt.Errorf("place order: %w", err)
		}
	}

	s.afterPlace(context.WithoutCancel(ctx), order, pl, changes)
	return order, nil
}

func (s *OrderService) PlaceOrder(ctx context.Context, req transport.CreateOrderRequest, userID uuid.UUID) (*models.Order, error) {
	return s.place(ctx, req, placement{userID: &userID})
}

func (s *OrderService) recipient(ctx context.Context, order *models.Order) notify.Recipient {
	r := notify.Recipient{Name: order.ShippingAddress.FullName(), Email: order.ShippingAddress.Email}
	if order.UserID == nil {
		return r
	}
	u, err := s.Repo.GetUserByID(ctx, *order.UserID)
	if err != nil {
		return r
	}
	if u.FullName != "" {
		r.Name = u.FullName
	}
	if e := u.EmailAddress(); e != "" {
		r.Email = e
	}
	return r
}

// afterPlace runs the post-commit steps. Each failure is logged and dropped.
func (s *OrderService) afterPlace(ctx context.Context, order *models.Order, pl placement, changes []repo.StockChange) {
	l := logging.FromContext(ctx).With("order_number", order.OrderNumber)

	if s.Notifier != nil {
		var err error
		if pl.guest {
			err = s.Notifier.SendGuestOrderConfirmation(ctx, order, notify.Recipient{Name: order.ShippingAddress.FullName(), Email: pl.guestEmail})
		} else {
			err = s.Notifier.SendOrderConfirmation(ctx, order, s.recipient(ctx, order))
		}
		if err != nil {
			l.Error("notification_failure", "kind", "order_confirmation", "error", err)
		}
	}

	events.Emit(ctx, s.Events, events.TopicOrders, order.ID.String(), orderEvent(events.OrderPlaced, order, s.now()))
	s.syncStock(ctx, changes)
}

func (s *OrderService) syncStock(ctx context.Context, changes []repo.StockChange) {
	if s.Index == nil || len(changes) == 0 {
		return
	}
	l := logging.FromContext(ctx)

	ids := make([]uuid.UUID, len(changes))
	for i, ch := range changes {
		ids[i] = ch.ProductID
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		l.Error("stock_adjustment_failure", "reason", "reload products", "error", err)
		return
	}
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			continue
		}
		if err := s.Index.IndexProduct(ctx, &p); err != nil {
			l.Error("stock_adjustment_failure", "product_id", id.String(), "stock", p.Stock, "error", err)
		}
	}
}

func orderEvent(kind string, o *models.Order, at time.Time) events.OrderEvent {
	ev := events.OrderEvent{
		Type:        kind,
		OrderID:     o.ID.String(),
		OrderNumber: o.OrderNumber,
		Guest:       o.IsGuestOrder,
		Status:      string(o.Status),
		FinalAmount: o.FinalAmount,
		OccurredAt:  at,
	}
	if o.UserID != nil {
		ev.UserID = o.UserID.String()
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, events.OrderLine{ProductID: it.ProductID.String(), Quantity: it.Quantity})
	}
	return ev
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListUserOrders(ctx, userID, offset, limit)
}

func (s *OrderService) GetOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	return s.Repo.GetUserOrder(ctx, id, userID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateOrderStatusRequest) (*models.Order, error) {
	updates := map[string]any{}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		if *req.Status == models.OrderCancelled {
			return nil, fmt.Errorf("%w: orders are cancelled through the cancel endpoint", ErrValidation)
		}
		updates["status"] = *req.Status
	}
	if req.PaymentStatus != nil {
		if !req.PaymentStatus.Valid() {
			return nil, fmt.Errorf("%w: unknown payment_status %q", ErrValidation, *req.PaymentStatus)
		}
		updates["payment_status"] = *req.PaymentStatus
	}
	if req.TrackingNumber != nil {
		updates["tracking_number"] = strings.TrimSpace(*req.TrackingNumber)
	}
	if req.Carrier != nil {
		updates["carrier"] = strings.TrimSpace(*req.Carrier)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	order, err := s.Repo.UpdateOrder(ctx, id, updates)
	if err != nil {
		if errors.Is(err, repo.ErrOrderClosed) {
			return nil, fmt.Errorf("%w: cancelled or refunded orders cannot change status", ErrValidation)
		}
		return nil, err
	}

	bg := context.WithoutCancel(ctx)
	events.Emit(bg, s.Events, events.TopicOrders, order.ID.String(), orderEvent(events.OrderStatusChanged, order, s.now()))

	if req.Status != nil && (*req.Status == models.OrderShipped || *req.Status == models.OrderDelivered) && s.Notifier != nil {
		update := notify.ShippingUpdate{
			Status:            order.Status,
			TrackingNumber:    order.TrackingNumber,
			Carrier:           order.Carrier,
			EstimatedDelivery: order.EstimatedDelivery,
		}
		if err := s.Notifier.SendShippingUpdate(bg, order, s.recipient(bg, order), update); err != nil {
			logging.FromContext(ctx).Error("notification_failure", "kind", "shipping_update", "order_number", order.OrderNumber, "error", err)
		}
	}
	return order, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.CancelOrder(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotCancellable) {
			return nil, fmt.Errorf("%w: only pending or confirmed orders can be cancelled", ErrNotCancellable)
		}
		return nil, err
	}

	bg := context.WithoutCancel(ctx)
	events.Emit(bg, s.Events, events.TopicOrders, order.ID.String(), orderEvent(events.OrderCancelled, order, s.now()))

	changes := make([]repo.StockChange, 0, len(order.Items))
	for _, it := range order.Items {
		changes = append(changes, repo.StockChange{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	s.syncStock(bg, changes)
	return order, nil
}
