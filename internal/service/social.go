package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/social"
	"github.com/Skotchmaster/techstore/internal/transport"
)

type SocialService struct {
	Auth      *AuthService
	Verifiers map[string]social.Verifier
}

func (s *SocialService) verify(ctx context.Context, provider, token string) (social.Identity, error) {
	v, ok := s.Verifiers[provider]
	if !ok || v == nil {
		return social.Identity{}, fmt.Errorf("%w: %s login is not configured", ErrValidation, provider)
	}
	if strings.TrimSpace(token) == "" {
		return social.Identity{}, fmt.Errorf("%w: %s token is required", ErrValidation, provider)
	}
	id, err := v.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, social.ErrInvalidToken) {
			return social.Identity{}, fmt.Errorf("%w: invalid %s token", ErrUnauthorized, provider)
		}
		return social.Identity{}, err
	}
	return id, nil
}

// Login finds the account by provider id, then by email, and creates one
// when neither matches.
func (s *SocialService) Login(ctx context.Context, provider, token string) (*transport.LoginResult, error) {
	id, err := s.verify(ctx, provider, token)
	if err != nil {
		return nil, err
	}
	r := s.Auth.Repo

	user, err := r.GetUserByProvider(ctx, provider, id.Subject)
	if err == nil {
		return s.Auth.login(ctx, user, provider)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: %s account has no email", ErrValidation, provider)
	}

	user, err = r.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if providerID(user, provider) == nil {
			if err := r.LinkProvider(ctx, user.ID, provider, id.Subject, id.Picture); err != nil {
				return nil, linkError(err)
			}
			if id.Picture != "" {
				user.Avatar = id.Picture
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.createSocialUser(ctx, id, email)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return s.Auth.login(ctx, user, provider)
}

func (s *SocialService) createSocialUser(ctx context.Context, id social.Identity, email string) (*models.User, error) {
	name := strings.TrimSpace(id.Name)
	if len([]rune(name)) < 2 {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user, err := s.Auth.newUser(name, &email, nil, id.Provider+"-auth-"+uuid.NewString(), true)
	if err != nil {
		return nil, err
	}
	user.Avatar = id.Picture
	subject := id.Subject
	switch id.Provider {
	case social.ProviderGoogle:
		user.GoogleID = &subject
	case social.ProviderFacebook:
		user.FacebookID = &subject
	}
	if err := s.Auth.createUser(ctx, user, id.Provider); err != nil {
		return nil, err
	}
	return user, nil
}

func providerID(u *models.User, provider string) *string {
	switch provider {
	case social.ProviderGoogle:
		return u.GoogleID
	case social.ProviderFacebook:
		return u.FacebookID
	}
	return nil
}

func linkError(err error) error {
	if errors.Is(err, repo.ErrDuplicate) {
		return fmt.Errorf("%w: account is already linked to another user", ErrConflict)
	}
	return err
}

func (s *SocialService) Link(ctx context.Context, userID uuid.UUID, provider, token string) error {
	id, err := s.verify(ctx, provider, token)
	if err != nil {
		return err
	}
	r := s.Auth.Repo

	existing, err := r.GetUserByProvider(ctx, provider, id.Subject)
	switch {
	case err == nil && existing.ID != userID:
		return fmt.Errorf("%w: %s account is already linked to another user", ErrConflict, provider)
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if err := r.LinkProvider(ctx, userID, provider, id.Subject, ""); err != nil {
		return linkError(err)
	}
	events.Emit(ctx, s.Auth.Events, events.TopicUsers, userID.String(), events.UserEvent{
		Type: events.UserSocialLinked, UserID: userID.String(), Provider: provider, OccurredAt: s.Auth.now(),
	})
	return nil
}
