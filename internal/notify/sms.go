package notify

import (
	"context"

	"github.com/Skotchmaster/techstore/pkg/logging"
)

type SMSSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// LogSMS writes one-time codes to the log instead of a carrier.
type LogSMS struct{}

func (LogSMS) SendOTP(ctx context.Context, phone, code string) error {
	logging.FromContext(ctx).Info("otp_generated", "phone_number", phone, "otp", code)
	return nil
}
