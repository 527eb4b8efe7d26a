package main

import (
	"github.com/rcsinavim/arena/internal/config"
)

// runCheckEnv validates the environment the same way the server does
// at startup, plus placeholder-value warnings.
func runCheckEnv() error {
	PrintHeader("Checking environment")

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		PrintInfo("warning: %s", w)
	}

	PrintSuccess("Environment OK")
	return nil
}
