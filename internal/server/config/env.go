package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/memokeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// envVars maps MEMOKEEPER_* variables onto string fields.
func envVars(cfg *Config) map[string]*string {
	return map[string]*string{
		"MEMOKEEPER_ADDR":             &cfg.Addr,
		"MEMOKEEPER_DATABASE_DSN":     &cfg.DatabaseDSN,
		"MEMOKEEPER_LOG_LEVEL":        &cfg.LogLevel,
		"MEMOKEEPER_S3_ROOT_USER":     &cfg.S3RootUser,
		"MEMOKEEPER_S3_ROOT_PASSWORD": &cfg.S3RootPassword,
		"MEMOKEEPER_S3_BUCKET":        &cfg.S3Bucket,
		"MEMOKEEPER_S3_REGION":        &cfg.S3Region,
		"MEMOKEEPER_S3_BASE_ENDPOINT": &cfg.S3BaseEndpoint,
	}
}

// parseEnv overlays Config with MEMOKEEPER_* environment variables. A
// dotenv file given via -env is loaded first and never overrides variables
// already present in the process environment. Panics on invalid values.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	for name, field := range envVars(cfg) {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("MEMOKEEPER_MAX_UPLOAD_SIZE_MIB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.MaxUploadSizeMiB = n
	}
	if v := os.Getenv("MEMOKEEPER_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.ShutdownTimeout = d
	}
}
