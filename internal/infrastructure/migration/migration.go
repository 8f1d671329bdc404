package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/paygate/internal/shared/logger"
)

const (
	StrategyAuto  = "auto"
	StrategyGoose = "goose"
)

// Manager runs one migration strategy against a database.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy by name: "auto" uses gorm AutoMigrate, anything
// else the embedded goose scripts.
func NewManager(name string, log logger.Interface) *Manager {
	var strategy Strategy
	switch name {
	case StrategyAuto:
		strategy = NewGormAutoMigrateStrategy(log)
	default:
		strategy = NewGooseStrategy(log)
	}
	return &Manager{strategy: strategy, logger: log}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
