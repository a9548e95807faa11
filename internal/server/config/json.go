package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/memokeeper/internal/flagx"
	"github.com/dmitrijs2005/memokeeper/internal/timex"
)

// JsonConfig is the DTO for the JSON config file. Empty or absent fields
// leave the value from earlier sources in place.
type JsonConfig struct {
	Addr             string          `json:"addr"`
	DatabaseDSN      string          `json:"database_dsn"`
	MaxUploadSizeMiB *int            `json:"max_upload_size_mib"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
	LogLevel         string          `json:"log_level"`
	S3RootUser       string          `json:"s3_root_user"`
	S3RootPassword   string          `json:"s3_root_password"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
}

// parseJson loads the JSON file named by -c or -config into config.
// Nothing happens when neither flag is present; read or decode errors panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Addr, c.Addr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.MaxUploadSizeMiB != nil {
		config.MaxUploadSizeMiB = *c.MaxUploadSizeMiB
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
