package location

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
)

const earthRadiusKM = 6371.0

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Store struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Phone   string  `json:"phone"`
	Hours   string  `json:"hours"`
}

type NearestStore struct {
	Store
	DistanceKM float64 `json:"distance"`
}

var DefaultStores = []Store{
	{ID: 1, Name: "TechStore NYC", Address: "123 Tech Street, New York, NY 10001", Lat: 40.7128, Lng: -74.0060, Phone: "+1 (555) 123-4567", Hours: "9:00 AM - 9:00 PM"},
	{ID: 2, Name: "TechStore LA", Address: "456 Innovation Ave, Los Angeles, CA 90001", Lat: 34.0522, Lng: -118.2437, Phone: "+1 (555) 123-4568", Hours: "9:00 AM - 9:00 PM"},
	{ID: 3, Name: "TechStore Chicago", Address: "789 Gadget Blvd, Chicago, IL 60601", Lat: 41.8781, Lng: -87.6298, Phone: "+1 (555) 123-4569", Hours: "9:00 AM - 9:00 PM"},
	{ID: 4, Name: "TechStore Miami", Address: "321 Digital Drive, Miami, FL 33101", Lat: 25.7617, Lng: -80.1918, Phone: "+1 (555) 123-4570", Hours: "9:00 AM - 9:00 PM"},
	{ID: 5, Name: "TechStore Seattle", Address: "654 Tech Way, Seattle, WA 98101", Lat: 47.6062, Lng: -122.3321, Phone: "+1 (555) 123-4571", Hours: "9:00 AM - 9:00 PM"},
}

// Distance is the great-circle distance in kilometres.
func Distance(a, b Coordinates) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

type StoreLocator interface {
	Stores(ctx context.Context) ([]Store, error)
	Nearest(ctx context.Context, c Coordinates) (*NearestStore, error)
}

// StaticLocator serves a fixed store list.
type StaticLocator struct {
	List []Store
}

func NewStaticLocator() *StaticLocator {
	return &StaticLocator{List: DefaultStores}
}

func (s *StaticLocator) Stores(_ context.Context) ([]Store, error) {
	out := make([]Store, len(s.List))
	copy(out, s.List)
	return out, nil
}

// Nearest returns nil when there are no stores.
func (s *StaticLocator) Nearest(_ context.Context, c Coordinates) (*NearestStore, error) {
	var best *NearestStore
	for _, st := range s.List {
		d := Distance(c, Coordinates{Lat: st.Lat, Lng: st.Lng})
		if best == nil || d < best.DistanceKM {
			best = &NearestStore{Store: st, DistanceKM: d}
		}
	}
	return best, nil
}

type Zone struct {
	Name         string          `json:"name"`
	MinKM        float64         `json:"min_km"`
	MaxKM        *float64        `json:"max_km"`
	Cost         decimal.Decimal `json:"cost"`
	DeliveryTime string          `json:"delivery_time"`
}

func Zones() []Zone {
	local, regional := 25.0, 100.0
	return []Zone{
		{Name: "Local", MinKM: 0, MaxKM: &local, Cost: decimal.RequireFromString("9.99"), DeliveryTime: "1-2 days"},
		{Name: "Regional", MinKM: 25, MaxKM: &regional, Cost: decimal.RequireFromString("19.99"), DeliveryTime: "2-3 days"},
		{Name: "National", MinKM: 100, Cost: decimal.RequireFromString("29.99"), DeliveryTime: "3-5 days"},
	}
}
