package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/social"
)

// tokenVerifier maps raw tokens to identities.
type tokenVerifier map[string]social.Identity

func (v tokenVerifier) Verify(_ context.Context, token string) (social.Identity, error) {
	id, ok := v[token]
	if !ok {
		return social.Identity{}, social.ErrInvalidToken
	}
	return id, nil
}

func newSocialService(t *testing.T) *SocialService {
	t.Helper()
	return &SocialService{
		Auth: newAuth(newRepo(t), nil),
		Verifiers: map[string]social.Verifier{
			social.ProviderGoogle: tokenVerifier{
				"g-ann":     {Provider: social.ProviderGoogle, Subject: "g-1", Email: "Ann@Example.com", Name: "Ann Lee", Picture: "https://img/ann.png"},
				"g-bob":     {Provider: social.ProviderGoogle, Subject: "g-2", Email: "bob@example.com", Name: "Bob"},
				"g-noemail": {Provider: social.ProviderGoogle, Subject: "g-3"},
			},
			social.ProviderFacebook: tokenVerifier{
				"f-ann": {Provider: social.ProviderFacebook, Subject: "f-1", Email: "ann@example.com", Name: "Ann Lee"},
			},
		},
	}
}

func TestSocialService_LoginCreatesThenReuses(t *testing.T) {
	t.Parallel()
	s := newSocialService(t)
	ctx := context.Background()

	first, err := s.Login(ctx, social.ProviderGoogle, "g-ann")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", first.User.EmailAddress())
	assert.Equal(t, "Ann Lee", first.User.FullName)
	assert.Equal(t, "https://img/ann.png", first.User.Avatar)
	assert.True(t, first.User.EmailVerified)

	again, err := s.Login(ctx, social.ProviderGoogle, "g-ann")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	fb, err := s.Login(ctx, social.ProviderFacebook, "f-ann")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, fb.User.ID)

	u, err := s.Auth.Repo.GetUserByProvider(ctx, social.ProviderFacebook, "f-1")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, u.ID)
}

func TestSocialService_LoginLinksPasswordAccount(t *testing.T) {
	t.Parallel()
	s := newSocialService(t)
	ctx := context.Background()

	registered := register(t, s.Auth, "bob@example.com")

	res, err := s.Login(ctx, social.ProviderGoogle, "g-bob")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, res.User.ID)

	_, err = s.Auth.Login(ctx, "bob@example.com", "secret123")
	require.NoError(t, err)
}

func TestSocialService_LoginErrors(t *testing.T) {
	t.Parallel()
	s := newSocialService(t)
	ctx := context.Background()

	_, err := s.Login(ctx, social.ProviderGoogle, "forged")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Login(ctx, social.ProviderGoogle, "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Login(ctx, "twitter", "x")
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Login(ctx, social.ProviderGoogle, "g-noemail")
	require.ErrorIs(t, err, ErrValidation)
}

func TestSocialService_Link(t *testing.T) {
	t.Parallel()
	s := newSocialService(t)
	ctx := context.Background()

	ann, err := s.Login(ctx, social.ProviderGoogle, "g-ann")
	require.NoError(t, err)
	other := register(t, s.Auth, "carol@example.com")

	require.NoError(t, s.Link(ctx, ann.User.ID, social.ProviderGoogle, "g-ann"))

	err = s.Link(ctx, other.User.ID, social.ProviderGoogle, "g-ann")
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, s.Link(ctx, other.User.ID, social.ProviderGoogle, "g-bob"))
	u, err := s.Auth.Repo.GetUserByProvider(ctx, social.ProviderGoogle, "g-2")
	require.NoError(t, err)
	assert.Equal(t, other.User.ID, u.ID)
}
