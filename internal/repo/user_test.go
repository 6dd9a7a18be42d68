package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/testutil"
)

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, r *GormRepo, email string) *models.User {
	t.Helper()
	u := &models.User{FullName: "Ann Lee", Email: strPtr(email), PasswordHash: "x", Role: models.RoleCustomer, IsActive: true}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func TestUserRepo_Lookups(t *testing.T) {
	t.Parallel()
	r := New(testutil.NewDB(t))
	ctx := context.Background()

	u := seedUser(t, r, "ann@example.com")
	phoneOnly := &models.User{FullName: "Bob", Phone: strPtr("+15550001"), PasswordHash: "x", Role: models.RoleCustomer, IsActive: true}
	require.NoError(t, r.CreateUser(ctx, phoneOnly))

	got, err := r.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetUserByPhone(ctx, "+15550001")
	require.NoError(t, err)
	assert.Equal(t, phoneOnly.ID, got.ID)
	assert.Nil(t, got.Email)

	_, err = r.GetUserByID(ctx, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	t.Parallel()
	r := New(testutil.NewDB(t))
	seedUser(t, r, "dup@example.com")

	err := r.CreateUser(context.Background(), &models.User{FullName: "X", Email: strPtr("dup@example.com"), PasswordHash: "x", Role: models.RoleCustomer})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepo_Providers(t *testing.T) {
	t.Parallel()
	r := New(testutil.NewDB(t))
	ctx := context.Background()
	a := seedUser(t, r, "a@example.com")
	b := seedUser(t, r, "b@example.com")

	require.NoError(t, r.LinkProvider(ctx, a.ID, "google", "g-1", "https://img/a.png"))
	got, err := r.GetUserByProvider(ctx, "google", "g-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "https://img/a.png", got.Avatar)

	err = r.LinkProvider(ctx, b.ID, "google", "g-1", "")
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = r.GetUserByProvider(ctx, "myspace", "x")
	require.Error(t, err)

	require.ErrorIs(t, r.LinkProvider(ctx, uuid.New(), "facebook", "f-1", ""), gorm.ErrRecordNotFound)
}

func TestUserRepo_IsActiveUser(t *testing.T) {
	t.Parallel()
	r := New(testutil.NewDB(t))
	ctx := context.Background()
	u := seedUser(t, r, "c@example.com")

	ok, err := r.IsActiveUser(ctx, u.ID.String())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, r.DB.Model(&models.User{}).Where("id = ?", u.ID).Update("is_active", false).Error)
	ok, err = r.IsActiveUser(ctx, u.ID.String())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.IsActiveUser(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.IsActiveUser(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepo_TouchLastLogin(t *testing.T) {
	t.Parallel()
	r := New(testutil.NewDB(t))
	ctx := context.Background()
	u := seedUser(t, r, "d@example.com")

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, r.TouchLastLogin(ctx, u.ID, at))

	got, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(at))
}
