package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestUser(role string) *models.User {
	id := uuid.NewString()
	return &models.User{
		ID:       id,
		Name:     "Test User",
		Email:    id + "@example.com",
		Phone:    "+1" + id[:10],
		Role:     role,
		Location: "Pune, Maharashtra",
		IsActive: true,
	}
}

func createTestProvider(t *testing.T, db *DB, services []string) *models.Provider {
	t.Helper()
	ctx := context.Background()

	user := newTestUser(models.RoleProvider)
	require.NoError(t, db.CreateUser(ctx, user))

	provider := &models.Provider{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Services:     services,
		Pricing:      500,
		Availability: true,
		Approved:     true,
	}
	require.NoError(t, db.CreateProvider(ctx, provider))
	return provider
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "db_test_dir")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "dir", "test.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := newTestUser(models.RoleCustomer)
	require.NoError(t, db.CreateUser(ctx, user))

	dup := newTestUser(models.RoleCustomer)
	dup.Email = user.Email
	err := db.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetUserByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := newTestUser(models.RoleCustomer)
	require.NoError(t, db.CreateUser(ctx, user))

	got, err := db.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Name, got.Name)
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := newTestUser(models.RoleCustomer)
	require.NoError(t, db.CreateUser(ctx, user))

	user.Name = "Renamed"
	user.Location = "Mumbai"
	user.IsActive = false
	require.NoError(t, db.UpdateUser(ctx, user))

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "Mumbai", got.Location)
	assert.False(t, got.IsActive)
}

func TestDeleteUser_CascadesProviderProfile(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	provider := createTestProvider(t, db, []string{"plumbing"})

	require.NoError(t, db.DeleteUser(ctx, provider.UserID))

	_, err := db.GetProvider(ctx, provider.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser_NotFound(t *testing.T) {
	db := setupTestDB(t)

	err := db.DeleteUser(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUsers_Pagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, db.CreateUser(ctx, newTestUser(models.RoleCustomer)))
	}

	page, err := db.ListUsers(ctx, 0, 3)
	require.NoError(t, err)
	assert.Len(t, page, 3)

	rest, err := db.ListUsers(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}
