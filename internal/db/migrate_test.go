package db

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"docvault/internal/model"
)

func TestMigrate_SQLite(t *testing.T) {
	gormDB, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), Options())
	require.NoError(t, err)

	require.NoError(t, Migrate(gormDB))

	assert.True(t, gormDB.Migrator().HasTable(&model.User{}))
	assert.True(t, gormDB.Migrator().HasTable(&model.Document{}))
	assert.True(t, gormDB.Migrator().HasTable(&model.MetadataField{}))
	assert.False(t, gormDB.Migrator().HasIndex(&model.Document{}, SearchIndexName))

	require.NoError(t, Reset(gormDB))
	assert.False(t, gormDB.Migrator().HasTable(&model.Document{}))
}

func TestNewLogger_SkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	opts := Options()
	opts.Logger = NewLogger(&buf)

	gormDB, err := gorm.Open(sqlite.Open("file:logger_test?mode=memory&cache=shared"), opts)
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))
	buf.Reset()

	var user model.User
	err = gormDB.Where("email = ?", "nobody@example.com").First(&user).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "nobody@example.com")
	assert.Empty(t, buf.String())

	err = gormDB.Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "missing_table")
}
