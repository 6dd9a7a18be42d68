package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Issuer struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Now           func() time.Time
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

func (i *Issuer) CreateAccessToken(role, id string, exp time.Time) (string, error) {
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(i.now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.AccessSecret)
}

// CreateRefreshToken returns the signed token and its JTI.
func (i *Issuer) CreateRefreshToken(id string, exp time.Time) (string, string, error) {
	jti := uuid.NewString()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(i.now()),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jti,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.RefreshSecret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func (i *Issuer) CreateGuestToken(orderID string, ttl time.Duration) (string, error) {
	claims := GuestClaims{
		OrderID: orderID,
		Type:    GuestTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(i.now()),
			ExpiresAt: jwt.NewNumericDate(i.now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.AccessSecret)
}
