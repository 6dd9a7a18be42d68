package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/location"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/cookies"
)

type listResponse[T any] struct {
	Data []T            `json:"data"`
	Meta map[string]any `json:"meta"`
}

func shipping() *models.Address {
	return &models.Address{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "+15550001111",
		Address: "350 5th Ave", City: "New York", State: "NY", ZipCode: "10118", Country: "USA",
	}
}

func (env *testEnv) createProduct(t *testing.T, adminToken, name string, stock int) models.Product {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/products", transport.CreateProductRequest{
		Name: name, Description: "desc", Price: decimal.RequireFromString("100.00"),
		Category: models.CategoryLaptops, Brand: "Acme", Stock: stock, Discount: 10,
	}, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Product](t, rec)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", nil, "").Code)
}

func TestAuthHandlers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", transport.RegisterRequest{
		FullName: "Jane Doe", Email: "jane@example.com", Password: "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[transport.LoginResult](t, rec)
	assert.NotEmpty(t, res.AccessToken)

	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
	}
	assert.ElementsMatch(t, []string{cookies.AccessToken, cookies.RefreshToken}, names)

	rec = env.do(t, http.MethodPost, "/api/auth/register", transport.RegisterRequest{
		FullName: "Jane Doe", Email: "jane@example.com", Password: "secret123",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", transport.LoginRequest{Email: "jane@example.com", Password: "nope123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/auth/me", nil, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[models.User](t, rec)
	assert.Equal(t, "jane@example.com", me.EmailAddress())
	assert.NotContains(t, rec.Body.String(), "password")

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", nil, "").Code)

	rec = env.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": res.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCatalogHandlers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.admin(t)
	customer := env.customer(t, "c@example.com")

	p := env.createProduct(t, admin.AccessToken, "Laptop Pro", 5)
	env.createProduct(t, admin.AccessToken, "Laptop Air", 5)

	rec := env.do(t, http.MethodPost, "/api/products", transport.CreateProductRequest{Name: "Nope"}, customer.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/products", transport.CreateProductRequest{Name: "Nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/products", transport.CreateProductRequest{Name: "X"}, admin.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/products?limit=1&sort_by=name&sort_order=asc", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse[models.Product]](t, rec)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Laptop Air", list.Data[0].Name)
	assert.EqualValues(t, 2, list.Meta["total"])
	assert.Equal(t, true, list.Meta["has_next"])

	rec = env.do(t, http.MethodGet, "/api/products/"+p.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/products/not-a-uuid", nil, "").Code)

	rec = env.do(t, http.MethodGet, "/api/products/meta/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":["Laptops"]}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/products/search?q=air", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[listResponse[models.Product]](t, rec)
	require.Len(t, found.Data, 1)

	stock := 9
	rec = env.do(t, http.MethodPatch, "/api/products/"+p.ID.String(), transport.PatchProductRequest{Stock: &stock}, admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 9, decode[models.Product](t, rec).Stock)

	rec = env.do(t, http.MethodDelete, "/api/products/"+p.ID.String(), nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/products/"+p.ID.String(), nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/products/"+p.ID.String(), nil, admin.AccessToken).Code)
}

func TestOrderHandlers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.admin(t)
	customer := env.customer(t, "buyer@example.com")
	p := env.createProduct(t, admin.AccessToken, "Laptop Pro", 3)

	req := transport.CreateOrderRequest{
		Items:           []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 2}},
		ShippingAddress: shipping(),
		BillingAddress:  shipping(),
		PaymentMethod:   models.PaymentCard,
	}

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/orders", req, "").Code)

	rec := env.do(t, http.MethodPost, "/api/orders", req, customer.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[models.Order](t, rec)
	assert.True(t, order.FinalAmount.Equal(decimal.RequireFromString("229.99")), order.FinalAmount.String())
	assert.Equal(t, models.OrderConfirmed, order.Status)

	rec = env.do(t, http.MethodPost, "/api/orders", req, customer.AccessToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Laptop Pro")

	rec = env.do(t, http.MethodGet, "/api/orders/my-orders", nil, customer.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[listResponse[models.Order]](t, rec)
	require.Len(t, mine.Data, 1)

	other := env.customer(t, "other@example.com")
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/orders/"+order.ID.String(), nil, other.AccessToken).Code)

	shipped := models.OrderShipped
	rec = env.do(t, http.MethodPut, "/api/orders/"+order.ID.String()+"/status", transport.UpdateOrderStatusRequest{Status: &shipped}, customer.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/orders/"+order.ID.String()+"/cancel", nil, customer.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderCancelled, decode[models.Order](t, rec).Status)

	rec = env.do(t, http.MethodPut, "/api/orders/"+order.ID.String()+"/cancel", nil, customer.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuestHandlers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.admin(t)
	p := env.createProduct(t, admin.AccessToken, "Laptop Pro", 3)

	rec := env.do(t, http.MethodPost, "/api/guest/order", transport.GuestOrderRequest{
		CreateOrderRequest: transport.CreateOrderRequest{
			Items:           []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
			ShippingAddress: shipping(),
			BillingAddress:  shipping(),
			PaymentMethod:   models.PaymentCashOnDelivery,
			DeliveryOption:  models.DeliveryExpress,
		},
		GuestEmail: "guest@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[transport.GuestOrderResult](t, rec)
	assert.NotEmpty(t, res.GuestAccessToken)
	number := res.Order.OrderNumber
	assert.True(t, strings.HasPrefix(number, "TSG"))
	assert.Equal(t, models.PaymentPending, res.Order.PaymentStatus)

	rec = env.do(t, http.MethodGet, "/api/guest/order/"+number+"?email=guest@example.com", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[transport.GuestOrderView](t, rec)
	assert.Equal(t, number, view.OrderNumber)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/guest/order/"+number+"?email=x@example.com", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/guest/order/TSG0?email=guest@example.com", nil, "").Code)

	rec = env.do(t, http.MethodGet, "/api/guest/order/"+number, nil, res.GuestAccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, number, decode[transport.GuestOrderView](t, rec).OrderNumber)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/guest/order/"+number, nil, "bogus").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", nil, res.GuestAccessToken).Code)

	rec = env.do(t, http.MethodPost, "/api/guest/convert-to-account", transport.ConvertGuestRequest{
		OrderNumber: number, Email: "guest@example.com", Password: "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLocationHandlers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/location/shipping-cost", transport.ShippingCostRequest{
		Address: "350 5th Ave, New York", OrderValue: decimal.NewFromInt(100), DeliveryOption: models.DeliveryStandard,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[location.Quote](t, rec)
	assert.False(t, q.Fallback)
	require.NotNil(t, q.Store)
	assert.Equal(t, "TechStore NYC", q.Store.Name)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/location/shipping-cost", transport.ShippingCostRequest{}, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/location/shipping-cost", transport.ShippingCostRequest{
		Address: "350 5th Ave, New York", OrderValue: decimal.NewFromInt(100), DeliveryOption: "teleport",
	}, "").Code)

	rec = env.do(t, http.MethodPost, "/api/location/shipping-cost", transport.ShippingCostRequest{
		Address: "350 5th Ave, New York", OrderValue: decimal.NewFromInt(100), DeliveryOption: models.DeliveryPickup,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[location.Quote](t, rec).Cost.IsZero())

	rec = env.do(t, http.MethodPost, "/api/location/shipping-cost", transport.ShippingCostRequest{
		Address: "350 5th Ave, New York", OrderValue: decimal.NewFromInt(100),
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, q.Cost.String(), decode[location.Quote](t, rec).Cost.String())

	rec = env.do(t, http.MethodGet, "/api/location/stores", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[listResponse[location.Store]](t, rec).Data, 5)

	rec = env.do(t, http.MethodGet, "/api/location/shipping-zones", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[listResponse[location.Zone]](t, rec).Data, 3)

	rec = env.do(t, http.MethodPost, "/api/location/validate-address", transport.AddressRequest{Address: "1 Main St"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)
}

func TestPhoneHandlers_InvalidPhone(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/phone-auth/send-otp", transport.PhoneRequest{PhoneNumber: "abc"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/social-auth/google", transport.GoogleTokenRequest{Token: "x"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", service.ErrValidation, http.StatusBadRequest},
		{"line item", &service.InsufficientStockError{Name: "Mouse"}, http.StatusBadRequest},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"other", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, msg := status(tt.err)
			assert.Equal(t, tt.code, code)
			if code == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", msg)
			}
		})
	}
}

func TestMe_WithoutUserInContext(t *testing.T) {
	t.Parallel()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := (&AuthHTTP{}).Me(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
