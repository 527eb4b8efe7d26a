package main

import (
	"fmt"
)

// runMigrate drives goose against the migrations directory
func runMigrate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: up, down, status, create")
	}
	subcmd := args[0]

	gooseCmd := "go"
	gooseArgs := []string{"run", "github.com/pressly/goose/v3/cmd/goose", "-dir", "migrations"}

	// create needs no DB connection
	if subcmd == "create" {
		if len(args) < 2 {
			return fmt.Errorf("migration name required for create")
		}
		migrationType := "sql"
		if len(args) > 2 {
			migrationType = args[2]
		}
		gooseArgs = append(gooseArgs, "create", args[1], migrationType)
		return runCommandVerbose(gooseCmd, gooseArgs...)
	}

	gooseArgs = append(gooseArgs, "postgres", dbURL(), subcmd)
	if len(args) > 1 {
		gooseArgs = append(gooseArgs, args[1:]...)
	}

	return runCommandVerbose(gooseCmd, gooseArgs...)
}
