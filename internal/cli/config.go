package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// PostgresDSNEnv names the environment variable holding the PostgreSQL connection string.
const PostgresDSNEnv = "QUERYBUILDER_POSTGRES_DSN"

var ErrMissingPostgresDSN = errors.New("missing postgres dsn: set " + PostgresDSNEnv)

// postgresDSN loads envFile, if it exists, and reads the DSN from the environment.
// Variables that are already set take precedence over the file.
func postgresDSN(envFile string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		return "", ErrMissingPostgresDSN
	}

	return dsn, nil
}
