package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"innerbloom-backend/internal/db"
)

func newSQLiteBackend(t *testing.T) *DBBackend {
	t.Helper()
	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, g.AutoMigrate(&db.KVEntry{}))
	return NewDBBackend(g)
}

func TestDBBackendRoundTrip(t *testing.T) {
	b := newSQLiteBackend(t)

	_, ok, err := b.Get("innerbloom:ava:streak")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set("innerbloom:ava:streak", "3"))
	v, ok, err := b.Get("innerbloom:ava:streak")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	// Overwrite keeps one row per key.
	require.NoError(t, b.Set("innerbloom:ava:streak", "4"))
	v, _, err = b.Get("innerbloom:ava:streak")
	require.NoError(t, err)
	assert.Equal(t, "4", v)

	require.NoError(t, b.Delete("innerbloom:ava:streak"))
	_, ok, err = b.Get("innerbloom:ava:streak")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDBBackendKeysByPrefix(t *testing.T) {
	b := newSQLiteBackend(t)

	require.NoError(t, b.Set("innerbloom:ava:streak", "1"))
	require.NoError(t, b.Set("innerbloom:ava:wellnessPoints", "10"))
	require.NoError(t, b.Set("innerbloom:ben:streak", "5"))
	require.NoError(t, b.Set("innerbloom:language", "en"))

	keys, err := b.Keys("innerbloom:ava:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"innerbloom:ava:streak", "innerbloom:ava:wellnessPoints"}, keys)
}

func TestDBBackendKeysEscapesWildcards(t *testing.T) {
	b := newSQLiteBackend(t)

	require.NoError(t, b.Set("innerbloom:a_a:streak", "1"))
	require.NoError(t, b.Set("innerbloom:aXa:streak", "2"))

	// The underscore in the prefix must match literally, not as a wildcard.
	keys, err := b.Keys("innerbloom:a_a:")
	require.NoError(t, err)
	assert.Equal(t, []string{"innerbloom:a_a:streak"}, keys)
}
