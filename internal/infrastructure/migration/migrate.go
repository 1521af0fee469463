package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator drives schema migrations for the ledger database using
// golang-migrate with the file source.
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator over an open postgres connection
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, logger: logger}, nil
}

// apply runs fn and treats ErrNoChange as success.
func (m *Migrator) apply(op string, fn func() error) (changed bool, err error) {
	m.logger.Info("Running migration operation", zap.String("op", op))

	err = fn()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema already up to date", zap.String("op", op))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("migration %s failed: %w", op, err)
	}
	return true, nil
}

func (m *Migrator) logVersion(op string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migration operation completed",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Up applies all pending migrations
func (m *Migrator) Up() error {
	changed, err := m.apply("up", m.migrate.Up)
	if err != nil || !changed {
		return err
	}
	return m.logVersion("up")
}

// Down rolls every migration back. Destructive, meant for test
// databases.
func (m *Migrator) Down() error {
	_, err := m.apply("down", m.migrate.Down)
	return err
}

// Steps moves n migrations forward, or back when n is negative.
func (m *Migrator) Steps(n int) error {
	changed, err := m.apply(fmt.Sprintf("step %d", n), func() error {
		return m.migrate.Steps(n)
	})
	if err != nil || !changed {
		return err
	}
	return m.logVersion("step")
}

// GoTo migrates the schema to a specific version
func (m *Migrator) GoTo(version uint) error {
	changed, err := m.apply(fmt.Sprintf("goto %d", version), func() error {
		return m.migrate.Migrate(version)
	})
	if err != nil || !changed {
		return err
	}
	return m.logVersion("goto")
}

// Version returns the current migration version. A database with no
// applied migrations reports version 0, not an error.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the recorded version without running migrations. Only for
// recovering a dirty schema.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the database
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping database objects")

	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
