package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is bumped whenever the set of required
// variables changes, so stale .env files fail fast instead of half
// configuring the service.
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must all be set for the service to start.
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
	"API_KEY",
}

// placeholderValues maps variables to the example values shipped in
// .env.example; finding one in a real environment is worth a warning.
var placeholderValues = map[string]string{
	"DB_PASSWORD": "change_this_secure_password",
	"API_KEY":     "generate_with_openssl_rand_hex_32",
}

// ValidateEnv verifies the schema version and that every required
// variable is present.
func ValidateEnv() error {
	switch version := os.Getenv("ENV_SCHEMA_VERSION"); version {
	case "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set, update your .env file (expected: %s)", ExpectedEnvSchemaVersion)
	case ExpectedEnvSchemaVersion:
	default:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s, your .env file may be outdated", ExpectedEnvSchemaVersion, version)
	}

	var missing []string
	for _, name := range RequiredEnvVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and additionally reports
// non-fatal issues such as placeholder credentials.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	for name, placeholder := range placeholderValues {
		if os.Getenv(name) == placeholder {
			warnings = append(warnings, fmt.Sprintf("%s is still set to the example value, replace it before deploying", name))
		}
	}
	return warnings, nil
}
