package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/memokeeper/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "MEMOKEEPER_"

// parseEnv overlays Config with MEMOKEEPER_* environment variables. When
// -env names a dotenv file it is loaded first without overriding variables
// that are already set.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	if v, ok := lookup("SERVER_URL"); ok {
		cfg.ServerURL = v
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		cfg.RequestTimeout = mustDuration(v)
	}
	if v, ok := lookup("MAX_UPLOAD_SIZE_MIB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.MaxUploadSizeMiB = n
	}
	if v, ok := lookup("ONLINE_CHECK_INTERVAL"); ok {
		cfg.OnlineCheckInterval = mustDuration(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func mustDuration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
