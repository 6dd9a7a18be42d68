package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/transport"
	pkg_hash "github.com/Skotchmaster/techstore/pkg/hash"
	"github.com/Skotchmaster/techstore/pkg/tokens"
)

const DefaultGuestTokenTTL = 30 * 24 * time.Hour

type GuestService struct {
	Orders   *OrderService
	Auth     *AuthService
	TokenTTL time.Duration
}

func (s *GuestService) PlaceGuestOrder(ctx context.Context, req transport.GuestOrderRequest) (*transport.GuestOrderResult, error) {
	email, err := normalizeEmail(req.GuestEmail)
	if err != nil {
		return nil, fmt.Errorf("%w: guest_email is required and must be valid", ErrValidation)
	}
	phone := strings.TrimSpace(req.GuestPhone)

	order := req.CreateOrderRequest
	if order.ShippingAddress != nil {
		addr := *order.ShippingAddress
		addr.Email = email
		if phone != "" {
			addr.Phone = phone
		}
		order.ShippingAddress = &addr
	}
	if order.BillingAddress != nil {
		addr := *order.BillingAddress
		addr.Email = email
		if phone != "" {
			addr.Phone = phone
		}
		order.BillingAddress = &addr
	}

	placed, err := s.Orders.place(ctx, order, placement{guest: true, guestEmail: email})
	if err != nil {
		return nil, err
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = DefaultGuestTokenTTL
	}
	token, err := s.Auth.Tokens.CreateGuestToken(placed.ID.String(), ttl)
	if err != nil {
		return nil, fmt.Errorf("sign guest token: %w", err)
	}
	return &transport.GuestOrderResult{Order: placed, GuestAccessToken: token}, nil
}

func (s *GuestService) lookup(ctx context.Context, number string) (*models.Order, error) {
	order, err := s.Orders.Repo.GetOrderByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}
	if !order.IsGuestOrder {
		return nil, fmt.Errorf("%w: order not found", ErrNotFound)
	}
	return order, nil
}

func (s *GuestService) guestOrder(ctx context.Context, number, email string) (*models.Order, error) {
	number = strings.TrimSpace(number)
	email = strings.ToLower(strings.TrimSpace(email))
	if number == "" || email == "" {
		return nil, fmt.Errorf("%w: order number and email are required", ErrValidation)
	}
	order, err := s.lookup(ctx, number)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(order.ShippingAddress.Email, email) {
		return nil, fmt.Errorf("%w: email does not match order", ErrForbidden)
	}
	return order, nil
}

func (s *GuestService) TrackGuestOrder(ctx context.Context, number, email string) (*transport.GuestOrderView, error) {
	order, err := s.guestOrder(ctx, number, email)
	if err != nil {
		return nil, err
	}
	return guestView(order), nil
}

// TrackWithToken authorizes by the guest access token issued at checkout.
func (s *GuestService) TrackWithToken(ctx context.Context, number, token string) (*transport.GuestOrderView, error) {
	claims, err := tokens.GuestClaimsFromToken(token, s.Auth.Tokens.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid guest token", ErrUnauthorized)
	}
	order, err := s.lookup(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	if claims.OrderID != order.ID.String() {
		return nil, fmt.Errorf("%w: token does not match order", ErrForbidden)
	}
	return guestView(order), nil
}

func guestView(order *models.Order) *transport.GuestOrderView {
	return &transport.GuestOrderView{
		OrderNumber:       order.OrderNumber,
		Status:            order.Status,
		PaymentStatus:     order.PaymentStatus,
		FinalAmount:       order.FinalAmount,
		CreatedAt:         order.CreatedAt,
		EstimatedDelivery: order.EstimatedDelivery,
		TrackingNumber:    order.TrackingNumber,
		Carrier:           order.Carrier,
		Items:             order.Items,
	}
}

// ConvertToAccount moves a guest order onto an existing or new account.
func (s *GuestService) ConvertToAccount(ctx context.Context, req transport.ConvertGuestRequest) (*transport.LoginResult, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	order, err := s.guestOrder(ctx, req.OrderNumber, req.Email)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.Auth.Repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !pkg_hash.CheckPassword(user.PasswordHash, req.Password) {
			return nil, ErrInvalidCredentials
		}
		if !user.IsActive {
			return nil, ErrInactiveAccount
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.newAccount(ctx, order, email, req)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.Orders.Repo.ClaimGuestOrder(ctx, order.ID, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order already claimed", ErrConflict)
		}
		return nil, err
	}
	order.UserID, order.IsGuestOrder = &user.ID, false
	events.Emit(context.WithoutCancel(ctx), s.Orders.Events, events.TopicOrders, order.ID.String(),
		orderEvent(events.OrderClaimed, order, s.Auth.now()))

	return s.Auth.IssueSession(ctx, user)
}

func (s *GuestService) newAccount(ctx context.Context, order *models.Order, email string, req transport.ConvertGuestRequest) (*models.User, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		name = order.ShippingAddress.FullName()
	}
	if err := validateFullName(name); err != nil {
		return nil, err
	}

	var phone *string
	if p := optional(order.ShippingAddress.Phone); p != nil {
		if _, err := s.Auth.Repo.GetUserByPhone(ctx, *p); errors.Is(err, gorm.ErrRecordNotFound) {
			phone = p
		}
	}

	user, err := s.Auth.newUser(name, &email, phone, req.Password, false)
	if err != nil {
		return nil, err
	}
	if err := s.Auth.createUser(ctx, user, "guest"); err != nil {
		return nil, err
	}
	return user, nil
}
