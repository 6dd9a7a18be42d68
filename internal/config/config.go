package config

import (
	"os"
	"time"

	"github.com/Skotchmaster/techstore/internal/notify"
	pkgconfig "github.com/Skotchmaster/techstore/pkg/config"
)

type Config struct {
	pkgconfig.Config

	SMTP notify.SMTPConfig

	GoogleClientID   string
	GoogleMapsAPIKey string

	CORSOrigins []string

	RateLimit       int64
	RateLimitWindow time.Duration

	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	GuestTokenTTL time.Duration
	OTPTTL        time.Duration
}

func Load() (Config, error) {
	base := pkgconfig.Load()
	if err := pkgconfig.Require(
		pkgconfig.Env{Name: "DATABASE_URL", Value: base.DatabaseURL},
		pkgconfig.Env{Name: "JWT_SECRET", Value: string(base.JWTAccessSecret)},
		pkgconfig.Env{Name: "JWT_REFRESH_SECRET", Value: string(base.JWTRefreshSecret)},
	); err != nil {
		return Config{}, err
	}

	return Config{
		Config: base,

		SMTP: notify.SMTPConfig{
			Host:     os.Getenv("EMAIL_HOST"),
			Port:     pkgconfig.EnvIntDefault("EMAIL_PORT", 587),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASSWORD"),
			From:     os.Getenv("EMAIL_FROM"),
		},

		GoogleClientID:   os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),

		CORSOrigins: pkgconfig.CSV(pkgconfig.EnvDefault("CORS_ORIGINS", "http://localhost:3000")),

		RateLimit:       int64(pkgconfig.EnvIntDefault("RATE_LIMIT", 100)),
		RateLimitWindow: pkgconfig.EnvDurationDefault("RATE_LIMIT_WINDOW", 15*time.Minute),

		AccessTTL:     pkgconfig.EnvDurationDefault("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:    pkgconfig.EnvDurationDefault("JWT_REFRESH_TTL", 7*24*time.Hour),
		GuestTokenTTL: pkgconfig.EnvDurationDefault("GUEST_TOKEN_TTL", 30*24*time.Hour),
		OTPTTL:        pkgconfig.EnvDurationDefault("OTP_TTL", 10*time.Minute),
	}, nil
}
