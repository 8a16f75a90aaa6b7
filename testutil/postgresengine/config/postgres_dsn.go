package config

import (
	"os"

	"github.com/joho/godotenv"
)

// PostgresDSNEnv names the environment variable holding the DSN of the test database.
const PostgresDSNEnv = "QUERYBUILDER_POSTGRES_DSN"

// PostgresTestDSN returns the DSN for the test database and whether one is configured.
// A .env file in the working directory is loaded first; variables already set in the environment win.
func PostgresTestDSN() (string, bool) {
	_ = godotenv.Load() // the .env file is optional

	dsn, ok := os.LookupEnv(PostgresDSNEnv)
	if !ok || dsn == "" {
		return "", false
	}

	return dsn, true
}
