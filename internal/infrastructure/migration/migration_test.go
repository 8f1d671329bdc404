package migration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orris-inc/paygate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrate.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestGooseStrategy_SQLite(t *testing.T) {
	db := openSQLite(t)
	strategy := NewGooseStrategy(logger.NewNop()).(*GooseStrategy)

	require.NoError(t, strategy.Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.JournalEntryModel{}))

	version, err := strategy.GetVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, strategy.Migrate(db), "up is idempotent")

	require.NoError(t, strategy.MigrateDown(db, 1))
	assert.False(t, db.Migrator().HasTable(&models.JournalEntryModel{}))
}

func TestManager_AutoMigrate(t *testing.T) {
	db := openSQLite(t)
	m := NewManager(StrategyAuto, logger.NewNop())

	assert.Equal(t, "gorm_auto_migrate", m.GetStrategy().GetName())
	require.NoError(t, m.Migrate(db))
	assert.True(t, db.Migrator().HasTable("payment_journal"))
}

func TestManager_DefaultsToGoose(t *testing.T) {
	assert.Equal(t, "goose", NewManager("", logger.NewNop()).GetStrategy().GetName())
}
