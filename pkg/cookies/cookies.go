package cookies

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	AccessToken  = "accessToken"
	RefreshToken = "refreshToken"
)

// Secure is off only for plain-HTTP development setups.
func CreateCookie(name, value, path string, exp time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Sha256Hex is used to store refresh tokens without keeping the raw value.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
