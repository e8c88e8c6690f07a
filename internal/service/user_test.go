package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/repository"
	"github.com/mantasgo/portfolio-ledger/internal/service"
	"github.com/mantasgo/portfolio-ledger/internal/testutil"
)

func TestUserService_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
	)
	ctx := context.Background()

	user, err := svc.Register(ctx, "new@test.com", "New User", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "new@test.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))

	// Registration provisions the profile with the default photo.
	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "profile_pics/default.png", profile.PhotoPath)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
	)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@test.com", "First", "password-one")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dup@test.com", "Second", "password-two")
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserService_UpdateProfilePhoto(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
	)
	ctx := context.Background()

	user, err := svc.Register(ctx, "photo@test.com", "Photo", "password-one")
	require.NoError(t, err)

	updated, err := svc.UpdateProfilePhoto(ctx, user.ID, "profile_pics/custom.png")
	require.NoError(t, err)
	assert.Equal(t, "profile_pics/custom.png", updated.PhotoPath)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "profile_pics/custom.png", profile.PhotoPath)
}

func TestDimensionService_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewDimensionService(repository.NewDimensionRepository(db))
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	other := testutil.SeedUser(t, db, "other@test.com", "Other")

	d, err := svc.CreateDimension(ctx, owner.ID, domain.KindExpenses, domain.RoleCategory, "Transport")
	require.NoError(t, err)

	_, err = svc.CreateDimension(ctx, owner.ID, domain.EntryKind("savings"), domain.RoleCategory, "Bad")
	require.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = svc.CreateDimension(ctx, owner.ID, domain.KindExpenses, domain.DimensionRole("vendor"), "Bad")
	require.ErrorIs(t, err, domain.ErrInvalidDimensionRole)

	// Listing is scoped by owner, kind, and role.
	dims, err := svc.ListDimensions(ctx, owner.ID, domain.KindExpenses, domain.RoleCategory)
	require.NoError(t, err)
	require.Len(t, dims, 1)
	assert.Equal(t, "Transport", dims[0].Label)

	dims, err = svc.ListDimensions(ctx, owner.ID, domain.KindExpenses, domain.RoleCounterparty)
	require.NoError(t, err)
	assert.Empty(t, dims)

	dims, err = svc.ListDimensions(ctx, other.ID, domain.KindExpenses, domain.RoleCategory)
	require.NoError(t, err)
	assert.Empty(t, dims)

	renamed, err := svc.RenameDimension(ctx, owner.ID, d.ID, "Commuting")
	require.NoError(t, err)
	assert.Equal(t, "Commuting", renamed.Label)

	_, err = svc.RenameDimension(ctx, other.ID, d.ID, "Hijacked")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.DeleteDimension(ctx, owner.ID, d.ID))
	require.ErrorIs(t, svc.DeleteDimension(ctx, owner.ID, d.ID), domain.ErrNotFound)
}
