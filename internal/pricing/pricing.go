// Package pricing computes order totals from priced line items.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/techstore/internal/models"
)

var ErrUnknownDeliveryOption = errors.New("unknown delivery option")

var (
	FreeShippingThreshold = decimal.NewFromInt(500)
	StandardShippingFee   = decimal.RequireFromString("29.99")
	ExpressShippingFee    = decimal.RequireFromString("49.99")
	TaxRate               = decimal.RequireFromString("0.10")

	hundred = decimal.NewFromInt(100)
)

type Line struct {
	Price           decimal.Decimal
	DiscountPercent int
	Quantity        int
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Tax         decimal.Decimal `json:"tax"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// LineTotal returns price × quantity, unrounded.
func LineTotal(l Line) decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineDiscount returns price × percent/100 × quantity, unrounded.
func LineDiscount(l Line) decimal.Decimal {
	if l.DiscountPercent <= 0 {
		return decimal.Zero
	}
	return l.Price.
		Mul(decimal.NewFromInt(int64(l.DiscountPercent))).
		Div(hundred).
		Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NormalizeDeliveryOption maps an empty option to standard and rejects unknown ones.
func NormalizeDeliveryOption(opt models.DeliveryOption) (models.DeliveryOption, error) {
	if opt == "" {
		return models.DeliveryStandard, nil
	}
	if !opt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDeliveryOption, opt)
	}
	return opt, nil
}

// ShippingFee is the checkout fee for a delivery option. Standard delivery is
// free only when the subtotal is strictly above the threshold.
func ShippingFee(opt models.DeliveryOption, subtotal decimal.Decimal) (decimal.Decimal, error) {
	opt, err := NormalizeDeliveryOption(opt)
	if err != nil {
		return decimal.Zero, err
	}
	switch opt {
	case models.DeliveryExpress, models.DeliveryPriority:
		return ExpressShippingFee, nil
	case models.DeliveryPickup:
		return decimal.Zero, nil
	default:
		if subtotal.GreaterThan(FreeShippingThreshold) {
			return decimal.Zero, nil
		}
		return StandardShippingFee, nil
	}
}

func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return round(subtotal.Mul(TaxRate))
}

// Compute sums the lines exactly, rounds each aggregate once (half-even) and
// derives the final amount from the rounded values.
func Compute(lines []Line, opt models.DeliveryOption) (Totals, error) {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, fmt.Errorf("quantity must be positive, got %d", l.Quantity)
		}
		if l.Price.IsNegative() {
			return Totals{}, errors.New("price must not be negative")
		}
		subtotal = subtotal.Add(LineTotal(l))
		discount = discount.Add(LineDiscount(l))
	}

	subtotal = round(subtotal)
	discount = round(discount)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	fee, err := ShippingFee(opt, subtotal)
	if err != nil {
		return Totals{}, err
	}
	tax := Tax(subtotal)

	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: fee,
		Tax:         tax,
		FinalAmount: subtotal.Sub(discount).Add(fee).Add(tax),
	}, nil
}
