package migration

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/orris-inc/paygate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

//go:embed scripts
var scripts embed.FS

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Migrate executes the migration strategy
	Migrate(db *gorm.DB) error
	// GetName returns the strategy name
	GetName() string
}

// Models lists every persisted model.
func Models() []interface{} {
	return []interface{}{
		&models.JournalEntryModel{},
	}
}

// GormAutoMigrateStrategy creates tables from the model structs.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(logger logger.Interface) Strategy {
	return &GormAutoMigrateStrategy{logger: logger}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		s.logger.Errorw("auto-migrate failed", "error", err)
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	s.logger.Infow("auto-migrate completed", "models", len(Models()))
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// GooseStrategy applies the versioned SQL scripts embedded for the database's dialect.
type GooseStrategy struct {
	logger logger.Interface
}

func NewGooseStrategy(logger logger.Interface) Strategy {
	return &GooseStrategy{logger: logger}
}

// dialect maps a gorm dialector name to the goose dialect and script directory.
func dialect(db *gorm.DB) (string, string, error) {
	switch name := db.Dialector.Name(); name {
	case "mysql":
		return "mysql", "mysql", nil
	case "sqlite":
		return "sqlite3", "sqlite", nil
	default:
		return "", "", fmt.Errorf("no migration scripts for dialect %q", name)
	}
}

func (s *GooseStrategy) prepare(db *gorm.DB) (string, error) {
	gooseDialect, dir, err := dialect(db)
	if err != nil {
		return "", err
	}

	sub, err := fs.Sub(scripts, "scripts")
	if err != nil {
		return "", fmt.Errorf("failed to open migration scripts: %w", err)
	}
	goose.SetBaseFS(sub)

	if err := goose.SetDialect(gooseDialect); err != nil {
		return "", fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return path.Clean(dir), nil
}

func (s *GooseStrategy) Migrate(db *gorm.DB) error {
	dir, err := s.prepare(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	currentVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		s.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if err := goose.Up(sqlDB, dir); err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)

	return nil
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

func (s *GooseStrategy) MigrateDown(db *gorm.DB, steps int) error {
	dir, err := s.prepare(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	for i := 0; i < steps; i++ {
		if err := goose.Down(sqlDB, dir); err != nil {
			s.logger.Errorw("down migration failed", "error", err)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}

	s.logger.Infow("down migration completed successfully", "steps", steps)
	return nil
}

func (s *GooseStrategy) GetVersion(db *gorm.DB) (int64, error) {
	if _, err := s.prepare(db); err != nil {
		return 0, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	version, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// Status prints the state of every script through goose's logger.
func (s *GooseStrategy) Status(db *gorm.DB) error {
	dir, err := s.prepare(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := goose.Status(sqlDB, dir); err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	return nil
}
