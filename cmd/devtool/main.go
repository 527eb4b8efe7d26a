package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "migrate":
		err = runMigrate(os.Args[2:])
	case "wait-for-db":
		err = runWaitForDB()
	case "seed":
		err = runSeed(os.Args[2:])
	case "import-decks":
		err = runImportDecks(os.Args[2:])
	case "check-env":
		err = runCheckEnv()
	case "simulate":
		err = runSimulate(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		PrintError("%v", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: devtool <command> [args...]")
	fmt.Println("Commands:")
	fmt.Println("  migrate      Manage database migrations (up, down, status, create)")
	fmt.Println("  wait-for-db  Wait for database to be ready (with retries)")
	fmt.Println("  seed         Seed database with data (test)")
	fmt.Println("  import-decks Validate and import a deck JSON file")
	fmt.Println("  check-env    Validate required environment variables")
	fmt.Println("  simulate     Play a scripted duel against the in-memory engine")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// dbURL builds the connection string from DB_URL or the DB_* variables
func dbURL() string {
	if url := os.Getenv("DB_URL"); url != "" {
		return url
	}
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "arena")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
}
