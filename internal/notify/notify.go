// Package notify sends transactional emails about orders.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

var ErrNoRecipient = errors.New("recipient has no email")

type Recipient struct {
	Name  string
	Email string
}

type ShippingUpdate struct {
	Status            models.OrderStatus
	TrackingNumber    string
	Carrier           string
	EstimatedDelivery *time.Time
}

// Notifier delivers at most once; callers log and drop failures.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, to Recipient) error
	SendGuestOrderConfirmation(ctx context.Context, order *models.Order, to Recipient) error
	SendShippingUpdate(ctx context.Context, order *models.Order, to Recipient, update ShippingUpdate) error
}

type Email struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, e Email) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// SMTPSender dials the server for every message.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) message(e Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat("TechStore", s.cfg.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := msg.To(e.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(mail.TypeTextHTML, e.HTML)
	return msg, nil
}

func (s *SMTPSender) Send(ctx context.Context, e Email) error {
	msg, err := s.message(e)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Mailer renders order emails and hands them to a Sender. A nil Sender
// only logs the email.
type Mailer struct {
	Sender Sender
}

func NewMailer(cfg SMTPConfig) *Mailer {
	if !cfg.Enabled() {
		return &Mailer{}
	}
	return &Mailer{Sender: NewSMTPSender(cfg)}
}

func (m *Mailer) deliver(ctx context.Context, e Email, attrs ...any) error {
	l := logging.FromContext(ctx).With("component", "mailer")
	if e.To == "" {
		return ErrNoRecipient
	}
	if m.Sender == nil {
		l.Info("email_not_sent", append([]any{"reason", "smtp not configured", "to", e.To, "subject", e.Subject}, attrs...)...)
		return nil
	}
	if err := m.Sender.Send(ctx, e); err != nil {
		return err
	}
	l.Info("email_sent", "to", e.To, "subject", e.Subject)
	return nil
}

type orderView struct {
	Title  string
	Name   string
	Order  *models.Order
	Guest  bool
	Update ShippingUpdate
}

func (m *Mailer) sendOrder(ctx context.Context, order *models.Order, to Recipient, guest bool) error {
	html, err := render(orderTmpl, orderView{Title: "Order Confirmed!", Name: to.Name, Order: order, Guest: guest})
	if err != nil {
		return fmt.Errorf("render order confirmation: %w", err)
	}
	return m.deliver(ctx, Email{
		To:      to.Email,
		Subject: "Order Confirmation - #" + order.OrderNumber,
		HTML:    html,
	}, "order_number", order.OrderNumber, "total", order.FinalAmount.StringFixed(2))
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, order *models.Order, to Recipient) error {
	return m.sendOrder(ctx, order, to, false)
}

func (m *Mailer) SendGuestOrderConfirmation(ctx context.Context, order *models.Order, to Recipient) error {
	return m.sendOrder(ctx, order, to, true)
}

func (m *Mailer) SendShippingUpdate(ctx context.Context, order *models.Order, to Recipient, update ShippingUpdate) error {
	html, err := render(shippingTmpl, orderView{Title: "Shipping Update", Name: to.Name, Order: order, Update: update})
	if err != nil {
		return fmt.Errorf("render shipping update: %w", err)
	}
	return m.deliver(ctx, Email{
		To:      to.Email,
		Subject: "Shipping Update - Order #" + order.OrderNumber,
		HTML:    html,
	}, "order_number", order.OrderNumber, "status", string(update.Status), "tracking_number", update.TrackingNumber)
}
