package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

func (s OrderStatus) Cancellable() bool {
	return s == OrderPending || s == OrderConfirmed
}

// ClosedStatuses are final: an order in one never changes status again.
func ClosedStatuses() []OrderStatus {
	return []OrderStatus{OrderCancelled, OrderRefunded}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentPayPal         PaymentMethod = "paypal"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentPayPal, PaymentBankTransfer, PaymentCashOnDelivery:
		return true
	}
	return false
}

type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "standard"
	DeliveryExpress  DeliveryOption = "express"
	DeliveryPriority DeliveryOption = "priority"
	DeliveryPickup   DeliveryOption = "pickup"
)

func (d DeliveryOption) Valid() bool {
	switch d {
	case DeliveryStandard, DeliveryExpress, DeliveryPriority, DeliveryPickup:
		return true
	}
	return false
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country,omitempty"`
}

func (a Address) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// OneLine renders the address the way a geocoder expects it.
func (a Address) OneLine() string {
	s := a.Address
	for _, part := range []string{a.City, a.State + " " + a.ZipCode, a.Country} {
		if part == "" || part == " " {
			continue
		}
		s += ", " + part
	}
	return s
}

// OrderItem is a snapshot of the product taken when the order was placed.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Discount  int             `json:"discount"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Brand     string          `json:"brand"`
	Category  Category        `json:"category"`
}

type Order struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"         json:"id"`
	OrderNumber       string          `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	UserID            *uuid.UUID      `gorm:"type:uuid;index"              json:"user_id"`
	Items             []OrderItem     `gorm:"serializer:json;not null"     json:"items"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"subtotal"`
	Discount          decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"discount"`
	ShippingFee       decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"shipping_fee"`
	Tax               decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"tax"`
	FinalAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"final_amount"`
	Status            OrderStatus     `gorm:"size:16;not null;index"       json:"status"`
	PaymentStatus     PaymentStatus   `gorm:"size:16;not null"             json:"payment_status"`
	PaymentMethod     PaymentMethod   `gorm:"size:32;not null"             json:"payment_method"`
	DeliveryOption    DeliveryOption  `gorm:"size:16;not null"             json:"delivery_option"`
	ShippingAddress   Address         `gorm:"serializer:json;not null"     json:"shipping_address"`
	BillingAddress    Address         `gorm:"serializer:json;not null"     json:"billing_address"`
	CustomerNotes     string          `gorm:"type:text"                    json:"customer_notes"`
	EstimatedDelivery *time.Time      `                                    json:"estimated_delivery"`
	TrackingNumber    string          `gorm:"size:64"                      json:"tracking_number"`
	Carrier           string          `gorm:"size:64"                      json:"carrier"`
	IsGuestOrder      bool            `gorm:"not null;default:false"       json:"is_guest_order"`
	CreatedAt         time.Time       `gorm:"index"                        json:"created_at"`
	UpdatedAt         time.Time       `                                    json:"updated_at"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
