// migrate.go

package core

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/mkraiem/facture-saas/internal/config"
)

// RunMigrations applies pending schema migrations before the server
// starts accepting traffic. An up-to-date schema is not an error.
func RunMigrations(cfg config.DatabaseConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.URL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	defer m.Close() //nolint:errcheck // nothing to do with close errors here

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
