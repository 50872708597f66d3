package database

import (
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationSource returns the migrate source URL, defaulting to the
// migrations directory next to the binary.
func migrationSource() string {
	if src := os.Getenv("MIGRATIONS_PATH"); src != "" {
		return src
	}
	return "file://migrations"
}

// RunMigrations applies all pending database migrations.
// The schema is owned entirely by the SQL files under migrations/;
// nothing in the application creates or alters tables at runtime.
func RunMigrations(dbURL string) error {
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	log.Println("🗄️  Initializing database migrations...")

	m, err := migrate.New(migrationSource(), dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		log.Printf("⚠️  Could not get migration version: %v", err)
	}

	// A dirty database means a previous migration run died midway.
	if dirty {
		log.Printf("⚠️  Database in dirty state at version %d, forcing clean...", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
		log.Printf("✅ Database cleaned, forced to version %d", version)
	}

	log.Println("📦 Applying pending migrations...")
	err = m.Up()
	if err != nil {
		if err == migrate.ErrNoChange {
			log.Println("✅ Database is up to date (no migrations needed)")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ = m.Version()
	log.Printf("✅ Migrations complete! Current version: %d", version)

	return nil
}

// GetMigrationVersion returns the current migration version.
func GetMigrationVersion(dbURL string) (uint, bool, error) {
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return 0, false, fmt.Errorf("DATABASE_URL not set")
	}

	m, err := migrate.New(migrationSource(), dbURL)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	return m.Version()
}

// RollbackMigration rolls back the last applied migration.
func RollbackMigration(dbURL string) error {
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	m, err := migrate.New(migrationSource(), dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	version, _, _ := m.Version()
	log.Printf("✅ Rolled back to version: %d", version)
	return nil
}
