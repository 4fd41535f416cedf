// Package migration applies the SQL schema with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator moves a PostgreSQL schema between numbered versions.
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// Source picks the migration files: dir when set, the embedded set otherwise.
func Source(embedded fs.FS, dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return embedded
}

// New binds the files of src to db. The caller keeps ownership of db, but
// Close releases it through the postgres driver.
func New(db *sql.DB, src fs.FS, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	files, err := iofs.New(src, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration files: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", files, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

// apply runs step and logs the resulting version. ErrNoChange is success.
func (m *Migrator) apply(name string, step func() error) error {
	m.logger.Info("Running migration", zap.String("step", name))
	if err := step(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("Schema already up to date", zap.String("step", name))
			return nil
		}
		return fmt.Errorf("migration %s failed: %w", name, err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migration finished",
		zap.String("step", name),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// Up applies every pending migration.
func (m *Migrator) Up() error { return m.apply("up", m.migrate.Up) }

// Down rolls every migration back.
func (m *Migrator) Down() error { return m.apply("down", m.migrate.Down) }

// Steps moves n versions, forward when positive.
func (m *Migrator) Steps(n int) error {
	return m.apply(fmt.Sprintf("steps %+d", n), func() error { return m.migrate.Steps(n) })
}

// GoTo migrates up or down to version.
func (m *Migrator) GoTo(version uint) error {
	return m.apply(fmt.Sprintf("goto %d", version), func() error { return m.migrate.Migrate(version) })
}

// Version reports the applied version, 0 on an empty database.
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

// Force records version without running anything. Only for clearing a
// dirty flag left by a failed migration.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table, invoices included.
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping every table")
	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

// Close releases the source and the database driver.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}
