package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"streamvault/internal/platform/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = DB.Ping(); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	fmt.Println("Successfully connected to PostgreSQL database!")

	if err := applyMigrations(); err != nil {
		log.Fatalf("Error applying migrations: %v", err)
	}
}

func applyMigrations() error {
	dbURL := "postgres://" + config.AppConfig.DBUser + ":" + config.AppConfig.DBPassword +
		"@" + config.AppConfig.DBHost + ":" + config.AppConfig.DBPort +
		"/" + config.AppConfig.DBName + "?sslmode=" + config.AppConfig.DBSslMode

	m, err := migrate.New(config.AppConfig.MigrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("No new migrations to apply.")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Migrations applied successfully.")
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
		fmt.Println("Database connection closed.")
	}
}
