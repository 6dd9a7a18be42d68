package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/techstore/internal/models"
)

type CreateOrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CreateOrderRequest struct {
	Items           []CreateOrderItem     `json:"items"`
	ShippingAddress *models.Address       `json:"shipping_address"`
	BillingAddress  *models.Address       `json:"billing_address"`
	PaymentMethod   models.PaymentMethod  `json:"payment_method"`
	DeliveryOption  models.DeliveryOption `json:"delivery_option"`
	CustomerNotes   string                `json:"customer_notes"`
}

type GuestOrderRequest struct {
	CreateOrderRequest
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
}

type UpdateOrderStatusRequest struct {
	Status         *models.OrderStatus   `json:"status"`
	PaymentStatus  *models.PaymentStatus `json:"payment_status"`
	TrackingNumber *string               `json:"tracking_number"`
	Carrier        *string               `json:"carrier"`
}

type GuestOrderResult struct {
	Order            *models.Order `json:"order"`
	GuestAccessToken string        `json:"guest_access_token"`
}

// GuestOrderView is what an unauthenticated tracker may see.
type GuestOrderView struct {
	OrderNumber       string               `json:"order_number"`
	Status            models.OrderStatus   `json:"status"`
	PaymentStatus     models.PaymentStatus `json:"payment_status"`
	FinalAmount       decimal.Decimal      `json:"final_amount"`
	CreatedAt         time.Time            `json:"created_at"`
	EstimatedDelivery *time.Time           `json:"estimated_delivery"`
	TrackingNumber    string               `json:"tracking_number"`
	Carrier           string               `json:"carrier"`
	Items             []models.OrderItem   `json:"items"`
}

type ConvertGuestRequest struct {
	OrderNumber string `json:"order_number"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
}

type CreateProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Category      models.Category  `json:"category"`
	Brand         string           `json:"brand"`
	Image         string           `json:"image"`
	Images        []string         `json:"images"`
	Specs         []models.Spec    `json:"specs"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"review_count"`
	Stock         int              `json:"stock"`
	SKU           string           `json:"sku"`
	IsActive      *bool            `json:"is_active"`
	Discount      int              `json:"discount"`
	Tags          []string         `json:"tags"`
	Features      []string         `json:"features"`
}

type PatchProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Category      *models.Category `json:"category"`
	Brand         *string          `json:"brand"`
	Image         *string          `json:"image"`
	Images        *[]string        `json:"images"`
	Specs         *[]models.Spec   `json:"specs"`
	Rating        *float64         `json:"rating"`
	ReviewCount   *int             `json:"review_count"`
	Stock         *int             `json:"stock"`
	IsActive      *bool            `json:"is_active"`
	Discount      *int             `json:"discount"`
	Tags          *[]string        `json:"tags"`
	Features      *[]string        `json:"features"`
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
}

type PhoneRegisterRequest struct {
	PhoneNumber string `json:"phone_number"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type PhoneLoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type GoogleTokenRequest struct {
	Token string `json:"token"`
}

type FacebookTokenRequest struct {
	AccessToken string `json:"access_token"`
}

type LoginResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	AccessExp    time.Time    `json:"access_expires_at"`
	RefreshExp   time.Time    `json:"refresh_expires_at"`
}

type ShippingCostRequest struct {
	Address        string                `json:"address"`
	OrderValue     decimal.Decimal       `json:"order_value"`
	DeliveryOption models.DeliveryOption `json:"delivery_option"`
}

type AddressRequest struct {
	Address string `json:"address"`
}
