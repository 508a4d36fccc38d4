package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreateAndByID(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	created := seedUser(t, conn, "ada@example.com", "Ada", "Lovelace")
	assert.NotZero(t, created.ID)

	got, err := repo.ByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "Lovelace", got.LastName)
}

func TestUserRepositoryByIDMissing(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	got, err := repo.ByID(999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepositoryByEmail(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	seedUser(t, conn, "ada@example.com", "Ada", "Lovelace")

	got, err := repo.ByEmail("ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.FirstName)

	missing, err := repo.ByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	first := seedUser(t, conn, "ada@example.com", "Ada", "Lovelace")
	require.NotZero(t, first.ID)

	dup := *first
	dup.ID = 0
	err := repo.Create(&dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepositoryAllFilterAndOrder(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	seedUser(t, conn, "grace@example.com", "Grace", "Hopper")
	seedUser(t, conn, "ada@example.com", "Ada", "Lovelace")
	seedUser(t, conn, "alan@example.com", "Alan", "Turing")

	all, err := repo.All(UserFilter{}, Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// last_name, then first_name
	assert.Equal(t, "Hopper", all[0].LastName)
	assert.Equal(t, "Lovelace", all[1].LastName)
	assert.Equal(t, "Turing", all[2].LastName)

	// substring match on last name
	filtered, err := repo.All(UserFilter{LastName: "ove"}, Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Ada", filtered[0].FirstName)

	count, err := repo.Count(UserFilter{LastName: "ove"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserRepositoryPagination(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	seedUser(t, conn, "a@example.com", "Aa", "Aa")
	seedUser(t, conn, "b@example.com", "Bb", "Bb")
	seedUser(t, conn, "c@example.com", "Cc", "Cc")

	page1, err := repo.All(UserFilter{}, Page{Skip: 0, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := repo.All(UserFilter{}, Page{Skip: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "Cc", page2[0].LastName)

	total, err := repo.Count(UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestUserRepositoryUpdatePartial(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	user := seedUser(t, conn, "ada@example.com", "Ada", "Lovelace")

	updated, err := repo.Update(user.ID, UserUpdate{FirstName: strPtr("Augusta")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "ada@example.com", updated.Email)
	assert.Equal(t, "Lovelace", updated.LastName)
}

func TestUserRepositoryUpdateNoFields(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	user := seedUser(t, conn, "ada@example.com", "Ada", "Lovelace")

	updated, err := repo.Update(user.ID, UserUpdate{})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUserRepositoryUpdateMissing(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	updated, err := repo.Update(999, UserUpdate{FirstName: strPtr("Nobody")})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUserRepositoryUpdateDuplicateEmail(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	seedUser(t, conn, "ada@example.com", "Ada", "Lovelace")
	other := seedUser(t, conn, "grace@example.com", "Grace", "Hopper")

	_, err := repo.Update(other.ID, UserUpdate{Email: strPtr("ada@example.com")})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepositoryDelete(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	user := seedUser(t, conn, "ada@example.com", "Ada", "Lovelace")

	removed, err := repo.Delete(user.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(user.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestUserRepositoryDeleteReferenced(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	user := seedUser(t, conn, "ada@example.com", "Ada", "Lovelace")
	seedInterval(t, conn, user.ID, "2026-01-01", "2026-01-31")

	_, err := repo.Delete(user.ID)
	assert.ErrorIs(t, err, ErrForeignKey)
}
