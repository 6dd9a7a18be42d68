// Package location estimates shipping cost and delivery time from a
// customer address and the nearest physical store.
package location

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

const FallbackDays = 3

var (
	ErrEmptyAddress = errors.New("address is required")

	freeThreshold = decimal.NewFromInt(500)
	localCost     = decimal.RequireFromString("9.99")
	regionalCost  = decimal.RequireFromString("19.99")
	nationalCost  = decimal.RequireFromString("29.99")

	distanceFactor = map[models.DeliveryOption]decimal.Decimal{
		models.DeliveryStandard: decimal.NewFromInt(1),
		models.DeliveryExpress:  decimal.NewFromInt(2),
		models.DeliveryPriority: decimal.NewFromInt(3),
		models.DeliveryPickup:   decimal.Zero,
	}
	fallbackFactor = map[models.DeliveryOption]decimal.Decimal{
		models.DeliveryStandard: decimal.NewFromInt(1),
		models.DeliveryExpress:  decimal.RequireFromString("1.5"),
		models.DeliveryPriority: decimal.NewFromInt(2),
		models.DeliveryPickup:   decimal.Zero,
	}
)

type Quote struct {
	Cost                 decimal.Decimal `json:"cost"`
	Store                *NearestStore   `json:"store"`
	EstimatedDays        int             `json:"estimated_days"`
	FreeShippingEligible bool            `json:"free_shipping_eligible"`
	Fallback             bool            `json:"fallback"`
}

type Estimator struct {
	Geocoder Geocoder
	Locator  StoreLocator
}

func NewEstimator(g Geocoder, l StoreLocator) *Estimator {
	return &Estimator{Geocoder: g, Locator: l}
}

func option(opt models.DeliveryOption) models.DeliveryOption {
	if _, ok := distanceFactor[opt]; ok {
		return opt
	}
	return models.DeliveryStandard
}

// BaseCost is the distance tier before the delivery option factor.
func BaseCost(distanceKM float64) decimal.Decimal {
	switch {
	case distanceKM < 10:
		return localCost
	case distanceKM < 50:
		return regionalCost
	default:
		return nationalCost
	}
}

func EstimatedDays(distanceKM float64, opt models.DeliveryOption) int {
	base := int(math.Ceil(distanceKM / 100))
	if base < 1 {
		base = 1
	}
	switch option(opt) {
	case models.DeliveryExpress:
		if d := base / 2; d > 1 {
			return d
		}
		return 1
	case models.DeliveryPriority:
		return 1
	default:
		return base
	}
}

func FallbackQuote(orderValue decimal.Decimal, opt models.DeliveryOption) Quote {
	free := orderValue.GreaterThan(freeThreshold)
	cost := decimal.Zero
	if !free {
		cost = nationalCost.Mul(fallbackFactor[option(opt)]).RoundBank(2)
	}
	return Quote{
		Cost:                 cost,
		EstimatedDays:        FallbackDays,
		FreeShippingEligible: free,
		Fallback:             true,
	}
}

// Quote never fails: geocoding or lookup problems produce the fallback quote.
func (e *Estimator) Quote(ctx context.Context, address string, orderValue decimal.Decimal, opt models.DeliveryOption) Quote {
	l := logging.FromContext(ctx).With("component", "shipping_estimator")
	opt = option(opt)

	store, err := e.NearestStore(ctx, address)
	if err != nil || store == nil {
		l.Warn("shipping_quote_fallback", "reason", "nearest store unavailable", "error", err)
		return FallbackQuote(orderValue, opt)
	}

	free := orderValue.GreaterThan(freeThreshold)
	cost := decimal.Zero
	if !free {
		cost = BaseCost(store.DistanceKM).Mul(distanceFactor[opt]).RoundBank(2)
	}
	return Quote{
		Cost:                 cost,
		Store:                store,
		EstimatedDays:        EstimatedDays(store.DistanceKM, opt),
		FreeShippingEligible: free,
	}
}

func (e *Estimator) NearestStore(ctx context.Context, address string) (*NearestStore, error) {
	geo, err := e.Validate(ctx, address)
	if err != nil {
		return nil, err
	}
	store, err := e.Locator.Nearest(ctx, geo.Coordinates())
	if err != nil {
		return nil, fmt.Errorf("nearest store: %w", err)
	}
	return store, nil
}

func (e *Estimator) Validate(ctx context.Context, address string) (GeocodeResult, error) {
	if address == "" {
		return GeocodeResult{}, ErrEmptyAddress
	}
	geo, err := e.Geocoder.Geocode(ctx, address)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geocode: %w", err)
	}
	return geo, nil
}

func (e *Estimator) Stores(ctx context.Context) ([]Store, error) {
	return e.Locator.Stores(ctx)
}
