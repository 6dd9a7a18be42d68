package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/testutil"
)

func TestTokenRepo_Rotate(t *testing.T) {
	t.Parallel()
	r := New(testutil.NewDB(t))
	ctx := context.Background()
	uid := uuid.New()

	old := &models.RefreshToken{Token: "hash-1", UserID: uid, JTI: "jti-1", ExpiresAt: time.Now().UTC().Add(time.Hour)}
	require.NoError(t, r.AddRefreshToken(ctx, old))

	next := &models.RefreshToken{Token: "hash-2", UserID: uid, JTI: "jti-2", ExpiresAt: time.Now().UTC().Add(time.Hour)}
	require.ErrorIs(t, r.RotateRefreshToken(ctx, "jti-1", "wrong-hash", next), ErrTokenRevoked)

	require.NoError(t, r.RotateRefreshToken(ctx, "jti-1", "hash-1", next))

	again := &models.RefreshToken{Token: "hash-3", UserID: uid, JTI: "jti-3", ExpiresAt: time.Now().UTC().Add(time.Hour)}
	require.ErrorIs(t, r.RotateRefreshToken(ctx, "jti-1", "hash-1", again), ErrTokenRevoked)
	require.ErrorIs(t, r.RotateRefreshToken(ctx, "missing", "hash-1", again), ErrTokenRevoked)
}

func TestTokenRepo_RotateExpired(t *testing.T) {
	t.Parallel()
	r := New(testutil.NewDB(t))
	ctx := context.Background()
	uid := uuid.New()

	old := &models.RefreshToken{Token: "h", UserID: uid, JTI: "j", ExpiresAt: time.Now().UTC().Add(-time.Minute)}
	require.NoError(t, r.AddRefreshToken(ctx, old))

	err := r.RotateRefreshToken(ctx, "j", "h", &models.RefreshToken{Token: "h2", UserID: uid, JTI: "j2", ExpiresAt: time.Now().UTC()})
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestTokenRepo_Revoke(t *testing.T) {
	t.Parallel()
	r := New(testutil.NewDB(t))
	ctx := context.Background()
	uid := uuid.New()

	require.NoError(t, r.AddRefreshToken(ctx, &models.RefreshToken{Token: "h", UserID: uid, JTI: "j", ExpiresAt: time.Now().UTC().Add(time.Hour)}))
	require.NoError(t, r.RevokeRefreshToken(ctx, "h"))

	var tok models.RefreshToken
	require.NoError(t, r.DB.Where("jti = ?", "j").First(&tok).Error)
	assert.True(t, tok.Revoked)
}
