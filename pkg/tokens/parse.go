package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

func parse(tokenStr string, secret []byte, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !tkn.Valid {
		return ErrInvalidToken
	}
	return nil
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	if err := parse(tokenStr, accessSecret, &claims); err != nil {
		return nil, err
	}
	// guest tokens share the access secret but carry no user
	if claims.Type == GuestTokenType || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := parse(tokenStr, refreshSecret, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func GuestClaimsFromToken(tokenStr string, secret []byte) (*GuestClaims, error) {
	var claims GuestClaims
	if err := parse(tokenStr, secret, &claims); err != nil {
		return nil, err
	}
	if claims.Type != GuestTokenType {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
