package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartinv/inventory-backend/pkg/db/models"
	"github.com/smartinv/inventory-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:users_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return conn
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	email := "casey@example.com"
	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     "casey",
		Email:        &email,
		PasswordHash: "hash",
		Name:         "Casey",
		Role:         enums.UserRoleAdmin,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	byName, err := repo.FindByUsername(ctx, "casey")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "casey", byID.Username)
	require.NotNil(t, byID.Email)
	require.Equal(t, email, *byID.Email)
}

func TestRepositoryCreateDuplicateUsername(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{Username: "dupe", PasswordHash: "hash", Name: "First", Role: enums.UserRoleAdmin})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Username: "dupe", PasswordHash: "hash", Name: "Second", Role: enums.UserRoleAdmin})
	require.Error(t, err)
}

func TestRepositoryListOrdersByCreation(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for _, username := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, CreateUserDTO{Username: username, PasswordHash: "hash", Name: username, Role: enums.UserRoleAdmin})
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "first", list[0].Username)
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{Username: "gone", PasswordHash: "hash", Name: "Gone", Role: enums.UserRoleAdmin})
	require.NoError(t, err)

	affected, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	affected, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, affected)

	_, err = repo.FindByID(ctx, created.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
