package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Skotchmaster/techstore/pkg/cache"
)

var ErrAddressNotFound = errors.New("address not found")

type GeocodeResult struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

func (g GeocodeResult) Coordinates() Coordinates {
	return Coordinates{Lat: g.Lat, Lng: g.Lng}
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (GeocodeResult, error)
}

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

type GoogleGeocoder struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:  apiKey,
		BaseURL: googleGeocodeURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

type googleGeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (GeocodeResult, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return GeocodeResult{}, err
	}
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GeocodeResult{}, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var body googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return GeocodeResult{}, fmt.Errorf("geocode decode: %w", err)
	}
	if len(body.Results) == 0 {
		return GeocodeResult{}, fmt.Errorf("%w: %s", ErrAddressNotFound, body.Status)
	}

	r := body.Results[0]
	return GeocodeResult{
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
		FormattedAddress: r.FormattedAddress,
	}, nil
}

// DevGeocoder places every address deterministically near New York.
type DevGeocoder struct{}

func (DevGeocoder) Geocode(_ context.Context, address string) (GeocodeResult, error) {
	if strings.TrimSpace(address) == "" {
		return GeocodeResult{}, ErrAddressNotFound
	}
	var h int32
	for _, r := range address {
		h = h*31 + int32(r)
	}
	off := float64(h%100) / 1000
	return GeocodeResult{
		Lat:              40.7128 + off,
		Lng:              -74.0060 + off,
		FormattedAddress: address,
	}, nil
}

// CachedGeocoder is a read-through Redis cache in front of another geocoder.
type CachedGeocoder struct {
	Next  Geocoder
	Cache *cache.RedisAdapter
	TTL   time.Duration
}

func NewCachedGeocoder(next Geocoder, c *cache.RedisAdapter) *CachedGeocoder {
	return &CachedGeocoder{Next: next, Cache: c, TTL: 24 * time.Hour}
}

func geocodeKey(address string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(address))
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (GeocodeResult, error) {
	key := geocodeKey(address)

	var res GeocodeResult
	if err := g.Cache.GetJSON(ctx, key, &res); err == nil {
		return res, nil
	}

	res, err := g.Next.Geocode(ctx, address)
	if err != nil {
		return GeocodeResult{}, err
	}
	_ = g.Cache.SetJSON(ctx, key, res, g.TTL)
	return res, nil
}
