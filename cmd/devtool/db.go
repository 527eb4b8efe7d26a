package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// runWaitForDB blocks until the database accepts connections
func runWaitForDB() error {
	PrintHeader("Waiting for database...")

	url := dbURL()
	maxRetries := 30
	retryInterval := 2 * time.Second

	var err error
	for i := 0; i < maxRetries; i++ {
		var db *sql.DB
		db, err = sql.Open("pgx", url)
		if err == nil {
			err = db.Ping()
			db.Close()
			if err == nil {
				PrintSuccess("Database is ready")
				return nil
			}
		}

		fmt.Printf("Database not ready (%d/%d): %v\n", i+1, maxRetries, err)
		time.Sleep(retryInterval)
	}

	return fmt.Errorf("database failed to become ready after %d attempts", maxRetries)
}

// runSeed loads SQL seed files for local development and tests
func runSeed(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: test")
	}
	if args[0] != "test" {
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}

	db, err := sql.Open("pgx", dbURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	PrintInfo("Running test seeds...")
	files := []string{
		"internal/database/seeds/test_users.sql",
		"internal/database/seeds/test_decks.sql",
	}
	for _, file := range files {
		PrintInfo("Executing %s...", file)
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute seed file %s: %w", file, err)
		}
	}

	PrintSuccess("Test seeds completed successfully")
	return nil
}
