package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/cookies"
	pkg_hash "github.com/Skotchmaster/techstore/pkg/hash"
	"github.com/Skotchmaster/techstore/pkg/tokens"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	minPasswordLen = 6
)

type AuthService struct {
	Repo       *repo.GormRepo
	Tokens     *tokens.Issuer
	Events     events.Publisher
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) ttl() (time.Duration, time.Duration) {
	access, refresh := s.AccessTTL, s.RefreshTTL
	if access <= 0 {
		access = DefaultAccessTTL
	}
	if refresh <= 0 {
		refresh = DefaultRefreshTTL
	}
	return access, refresh
}

func validateFullName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 2 || n > 100 {
		return fmt.Errorf("%w: full_name must be 2-100 characters", ErrValidation)
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return email, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// IssueSession signs an access/refresh pair and stores the refresh hash.
func (s *AuthService) IssueSession(ctx context.Context, user *models.User) (*transport.LoginResult, error) {
	accessTTL, refreshTTL := s.ttl()
	now := s.now()
	accessExp, refreshExp := now.Add(accessTTL), now.Add(refreshTTL)

	access, err := s.Tokens.CreateAccessToken(string(user.Role), user.ID.String(), accessExp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, jti, err := s.Tokens.CreateRefreshToken(user.ID.String(), refreshExp)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.Repo.AddRefreshToken(ctx, &models.RefreshToken{
		Token:     cookies.Sha256Hex(refresh),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &transport.LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) newUser(fullName string, email, phone *string, password string, verified bool) (*models.User, error) {
	hashed, err := pkg_hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &models.User{
		FullName:      strings.TrimSpace(fullName),
		Email:         email,
		Phone:         phone,
		PasswordHash:  hashed,
		Role:          models.RoleCustomer,
		IsActive:      true,
		EmailVerified: verified,
	}, nil
}

func (s *AuthService) createUser(ctx context.Context, u *models.User, provider string) error {
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return err
	}
	events.Emit(ctx, s.Events, events.TopicUsers, u.ID.String(), events.UserEvent{
		Type: events.UserRegistered, UserID: u.ID.String(), Provider: provider, OccurredAt: s.now(),
	})
	return nil
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.LoginResult, error) {
	if err := validateFullName(req.FullName); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	user, err := s.newUser(req.FullName, &email, optional(req.Phone), req.Password, false)
	if err != nil {
		return nil, err
	}
	if err := s.createUser(ctx, user, "password"); err != nil {
		return nil, err
	}
	return s.IssueSession(ctx, user)
}

func (s *AuthService) login(ctx context.Context, user *models.User, provider string) (*transport.LoginResult, error) {
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}
	now := s.now()
	if err := s.Repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	events.Emit(ctx, s.Events, events.TopicUsers, user.ID.String(), events.UserEvent{
		Type: events.UserLoggedIn, UserID: user.ID.String(), Provider: provider, OccurredAt: now,
	})
	return s.IssueSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*transport.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.login(ctx, user, "password")
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*transport.LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.Tokens.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrUnauthorized)
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	accessTTL, refreshTTL := s.ttl()
	now := s.now()
	accessExp, refreshExp := now.Add(accessTTL), now.Add(refreshTTL)

	access, err := s.Tokens.CreateAccessToken(string(user.Role), user.ID.String(), accessExp)
	if err != nil {
		return nil, err
	}
	refresh, jti, err := s.Tokens.CreateRefreshToken(user.ID.String(), refreshExp)
	if err != nil {
		return nil, err
	}

	next := &models.RefreshToken{Token: cookies.Sha256Hex(refresh), UserID: user.ID, JTI: jti, ExpiresAt: refreshExp}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, cookies.Sha256Hex(refreshToken), next); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}

	return &transport.LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, cookies.Sha256Hex(refreshToken))
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.Repo.GetUserByID(ctx, userID)
}
