package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
)

func newTestUser(mobile, civicID string) *entities.User {
	now := time.Now()
	return &entities.User{
		ID:           uuid.New(),
		MobileNumber: mobile,
		CivicID:      civicID,
		IsVerified:   true,
		AuthProvider: entities.AuthProviderOTP,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser("9876543210", "CIV123456")
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.MobileNumber, got.MobileNumber)
	assert.Equal(t, user.CivicID, got.CivicID)
	assert.Equal(t, entities.AuthProviderOTP, got.AuthProvider)
	assert.False(t, got.FirebaseUID.Valid)

	byMobile, err := repo.GetByMobileNumber(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byMobile.ID)

	byCivic, err := repo.GetByCivicID(ctx, "CIV123456")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byCivic.ID)
}

func TestUserRepositoryGetNotFound(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByMobileNumber(ctx, "0000000000")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByFirebaseUID(ctx, "missing-uid")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepositoryCreateDuplicateMobile(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("9876543210", "CIV111111")))

	err := repo.Create(ctx, newTestUser("9876543210", "CIV222222"))
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestUserRepositoryLinkFirebaseUID(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser("9876543210", "CIV123456")
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.LinkFirebaseUID(ctx, user.ID, "firebase-sub-1"))

	got, err := repo.GetByFirebaseUID(ctx, "firebase-sub-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, entities.AuthProviderFirebase, got.AuthProvider)
	assert.True(t, got.IsVerified)

	err = repo.LinkFirebaseUID(ctx, uuid.New(), "firebase-sub-2")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepositoryUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser("9876543210", "CIV123456")
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.UpdateProfile(ctx, user.ID, &entities.UpdateProfileInput{
		FullName: "Asha Verma",
		Email:    "asha@example.com",
		Address:  "12 MG Road",
	})
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom("Asha Verma"), updated.FullName)
	assert.Equal(t, null.StringFrom("asha@example.com"), updated.Email)
	assert.Equal(t, "CIV123456", updated.CivicID)
}

func TestUserRepositoryUpdateProfileCivicIDConflict(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("9876543210", "CIV111111")))
	second := newTestUser("9876543211", "CIV222222")
	require.NoError(t, repo.Create(ctx, second))

	_, err := repo.UpdateProfile(ctx, second.ID, &entities.UpdateProfileInput{
		FullName: "Ravi Kumar",
		Email:    "ravi@example.com",
		Address:  "5 Park Street",
		CivicID:  "CIV111111",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}
