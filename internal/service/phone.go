package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/notify"
	"github.com/Skotchmaster/techstore/internal/transport"
	pkg_hash "github.com/Skotchmaster/techstore/pkg/hash"
)

const DefaultOTPTTL = 10 * time.Minute

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

type PhoneService struct {
	Auth   *AuthService
	SMS    notify.SMSSender
	OTPTTL time.Duration
	Rand   io.Reader
}

func normalizePhone(phone string) (string, error) {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	if !phonePattern.MatchString(p) {
		return "", fmt.Errorf("%w: invalid phone number", ErrValidation)
	}
	return p, nil
}

func (s *PhoneService) code() (string, error) {
	r := s.Rand
	if r == nil {
		r = rand.Reader
	}
	n, err := rand.Int(r, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", 100000+n.Int64()), nil
}

func (s *PhoneService) SendOTP(ctx context.Context, phone string) error {
	phone, err := normalizePhone(phone)
	if err != nil {
		return err
	}
	code, err := s.code()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	ttl := s.OTPTTL
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}

	v := &models.Verification{PhoneNumber: phone, OTP: code, ExpiresAt: s.Auth.now().Add(ttl)}
	if err := s.Auth.Repo.CreateVerification(ctx, v); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	sms := s.SMS
	if sms == nil {
		sms = notify.LogSMS{}
	}
	if err := sms.SendOTP(ctx, phone, code); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

func (s *PhoneService) VerifyOTP(ctx context.Context, phone, otp string) error {
	phone, err := normalizePhone(phone)
	if err != nil {
		return err
	}
	if strings.TrimSpace(otp) == "" {
		return fmt.Errorf("%w: otp is required", ErrValidation)
	}
	if err := s.Auth.Repo.ConsumeOTP(ctx, phone, strings.TrimSpace(otp), s.Auth.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invalid or expired OTP", ErrValidation)
		}
		return err
	}
	return nil
}

func (s *PhoneService) Register(ctx context.Context, req transport.PhoneRegisterRequest) (*transport.LoginResult, error) {
	phone, err := normalizePhone(req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if err := validateFullName(req.FullName); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	var email *string
	if strings.TrimSpace(req.Email) != "" {
		e, err := normalizeEmail(req.Email)
		if err != nil {
			return nil, err
		}
		email = &e
	}

	verified, err := s.Auth.Repo.PhoneVerified(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, fmt.Errorf("%w: phone number not verified", ErrValidation)
	}

	if _, err := s.Auth.Repo.GetUserByPhone(ctx, phone); err == nil {
		return nil, fmt.Errorf("%w: user already exists with this phone number", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.Auth.newUser(req.FullName, email, &phone, req.Password, email == nil)
	if err != nil {
		return nil, err
	}
	if err := s.Auth.createUser(ctx, user, "phone"); err != nil {
		return nil, err
	}
	return s.Auth.IssueSession(ctx, user)
}

func (s *PhoneService) Login(ctx context.Context, phone, password string) (*transport.LoginResult, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	user, err := s.Auth.Repo.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.Auth.login(ctx, user, "phone")
}
