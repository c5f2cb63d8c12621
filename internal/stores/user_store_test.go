package stores

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
)

func TestCreateIfAbsentIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := NewUserStore(db)

	first := &models.User{Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, store.CreateIfAbsent(first))
	assert.Equal(t, "user", first.Role)

	second := &models.User{Email: "alice@example.com", Name: "Alice again"}
	assert.ErrorIs(t, store.CreateIfAbsent(second), ErrUserExists)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	users, err := store.List()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name, "the duplicate must not overwrite the original")
}

func TestRoleDefaultsToUser(t *testing.T) {
	db := newTestDB(t)
	store := NewUserStore(db)

	role, err := store.RoleByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user", role)
}

func TestUpdateRole(t *testing.T) {
	db := newTestDB(t)
	store := NewUserStore(db)

	user := &models.User{Email: "bob@example.com"}
	require.NoError(t, store.CreateIfAbsent(user))

	require.NoError(t, store.UpdateRole(user.ID, "admin"))

	role, err := store.RoleByEmail("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
}

func TestUpdateRoleMissingUser(t *testing.T) {
	db := newTestDB(t)

	err := NewUserStore(db).UpdateRole(uuid.New(), "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}
