package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KOMKZ/go-auth-service/logger"
)

type testUser struct {
	ID    uint   `gorm:"primarykey"`
	Email string `gorm:"uniqueIndex"`
	Name  string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&testUser{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM test_users")
	})
	return db
}

func TestBaseRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewBaseRepository[testUser](db)
	ctx := context.Background()

	user := &testUser{Email: "user@example.com", Name: "Ada"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", found.Email)

	found.Name = "Ada L."
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)

	exists, err := repo.Exists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestBaseRepository_FindByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewBaseRepository[testUser](db)

	_, err := repo.FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestBaseRepository_Transaction_Rollback(t *testing.T) {
	db := newTestDB(t)
	repo := NewBaseRepository[testUser](db)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testUser{Email: "tx@example.com"}).Error; err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestManager_SQLite(t *testing.T) {
	configs := map[string]Config{
		"main": {
			Driver: "sqlite",
			DSN:    "file::memory:",
		},
	}

	m, err := NewManager(configs, nil, logger.NewCtxZapLogger("database"))
	require.NoError(t, err)
	defer m.Close()

	db := m.DB("main")
	require.NotNil(t, db)
	assert.Nil(t, m.DB("unknown"))
	assert.NoError(t, m.Ping())

	stats, err := m.Stats("main")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)

	_, err = m.Stats("unknown")
	assert.Error(t, err)
}

func TestManager_InvalidConfig(t *testing.T) {
	m, err := NewManager(map[string]Config{
		"main": {Driver: "sqlite"},
	}, nil, logger.NewCtxZapLogger("database"))
	assert.Error(t, err)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestManager_UnsupportedDriver(t *testing.T) {
	m, err := NewManager(map[string]Config{
		"main": {Driver: "oracle", DSN: "whatever"},
	}, nil, logger.NewCtxZapLogger("database"))
	assert.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "unsupported driver")
}
