package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/notify"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/testutil"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/tokens"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(testutil.NewDB(t))
}

func newAuth(r *repo.GormRepo, pub *fakePublisher) *AuthService {
	s := &AuthService{
		Repo: r,
		Tokens: &tokens.Issuer{
			AccessSecret:  []byte("access-secret"),
			RefreshSecret: []byte("refresh-secret"),
		},
	}
	if pub != nil {
		s.Events = pub
	}
	return s
}

func seedProduct(t *testing.T, r *repo.GormRepo, price string, discount, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        "Product " + uuid.NewString()[:6],
		Description: "Test product",
		Price:       decimal.RequireFromString(price),
		Category:    models.CategoryAccessories,
		Brand:       "Acme",
		Stock:       stock,
		SKU:         "SKU-" + uuid.NewString()[:8],
		IsActive:    true,
		Discount:    discount,
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func address(email string) *models.Address {
	return &models.Address{
		FirstName: "Jane", LastName: "Doe", Email: email, Phone: "+15550001111",
		Address: "1 Market St", City: "San Francisco", State: "CA", ZipCode: "94105", Country: "USA",
	}
}

func orderRequest(items ...transport.CreateOrderItem) transport.CreateOrderRequest {
	return transport.CreateOrderRequest{
		Items:           items,
		ShippingAddress: address("jane@example.com"),
		BillingAddress:  address("jane@example.com"),
		PaymentMethod:   models.PaymentCard,
	}
}

type sentMail struct {
	kind  string
	order string
	to    notify.Recipient
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeNotifier) record(kind string, o *models.Order, to notify.Recipient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{kind: kind, order: o.OrderNumber, to: to})
	return f.err
}

func (f *fakeNotifier) SendOrderConfirmation(_ context.Context, o *models.Order, to notify.Recipient) error {
	return f.record("order", o, to)
}

func (f *fakeNotifier) SendGuestOrderConfirmation(_ context.Context, o *models.Order, to notify.Recipient) error {
	return f.record("guest", o, to)
}

func (f *fakeNotifier) SendShippingUpdate(_ context.Context, o *models.Order, to notify.Recipient, _ notify.ShippingUpdate) error {
	return f.record("shipping", o, to)
}

func (f *fakeNotifier) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, s := range f.sent {
		out[i] = s.kind
	}
	return out
}

type published struct {
	topic string
	key   string
	event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{topic: topic, key: key, event: event})
	return f.err
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.events {
		switch ev := e.event.(type) {
		case events.OrderEvent:
			out = append(out, ev.Type)
		case events.ProductEvent:
			out = append(out, ev.Type)
		case events.UserEvent:
			out = append(out, ev.Type)
		}
	}
	return out
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[uuid.UUID]int
	err     error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexed == nil {
		f.indexed = map[uuid.UUID]int{}
	}
	f.indexed[p.ID] = p.Stock
	return f.err
}

var errBoom = errors.New("boom")
