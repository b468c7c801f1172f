package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, g.AutoMigrate(&User{}, &KVEntry{}))
	return g
}

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry(openTestDB(t))

	first, err := r.GetOrCreate("ava")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	again, err := r.GetOrCreate("ava")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "existing user must not be duplicated")
}

func TestRegistryUsernamesInCreationOrder(t *testing.T) {
	r := NewRegistry(openTestDB(t))

	for _, name := range []string{"ava", "ben", "cleo"} {
		_, err := r.GetOrCreate(name)
		require.NoError(t, err)
	}

	names, err := r.Usernames()
	require.NoError(t, err)
	assert.Equal(t, []string{"ava", "ben", "cleo"}, names)
}

func TestKVEntryUniqueKey(t *testing.T) {
	g := openTestDB(t)

	require.NoError(t, g.Create(&KVEntry{K: "innerbloom:ava:streak", V: "1"}).Error)
	err := g.Create(&KVEntry{K: "innerbloom:ava:streak", V: "2"}).Error
	assert.Error(t, err, "duplicate keys must be rejected by the schema")
}

func TestLoadConfigSQLiteDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "")

	cfg := LoadConfig()
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, "innerbloom.db", cfg.SQLitePath)
}
