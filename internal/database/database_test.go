package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/plucktv/plucktv/internal/config"
	"github.com/plucktv/plucktv/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      ":memory:",
		LogLevel: "silent",
	}, nil, &Options{PrepareStmt: false})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_Sqlite(t *testing.T) {
	db := testDB(t)
	assert.Equal(t, "sqlite", db.Driver())
	assert.NoError(t, db.Ping(context.Background()))
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, nil, nil)
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Migrate())

	assert.True(t, db.DB.Migrator().HasTable(&models.Playlist{}))
}

func TestTransaction_Rollback(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Migrate())

	err := db.Transaction(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&models.Playlist{Name: "inside tx"}).Error; err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.DB.Model(&models.Playlist{}).Count(&count).Error)
	assert.Zero(t, count)
}
