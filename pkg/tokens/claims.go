package tokens

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	Role string `json:"role"`
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

const GuestTokenType = "guest"

// GuestClaims grant read access to a single guest order.
type GuestClaims struct {
	OrderID string `json:"order_id"`
	Type    string `json:"type"`
	jwt.RegisteredClaims
}
