package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/memokeeper/internal/flagx"
	"github.com/dmitrijs2005/memokeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields keep the values from earlier sources.
type JsonConfig struct {
	ServerURL           string          `json:"server_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	MaxUploadSizeMiB    *int            `json:"max_upload_size_mib"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogLevel            string          `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file given via
// -c or -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.MaxUploadSizeMiB != nil {
		cfg.MaxUploadSizeMiB = *jc.MaxUploadSizeMiB
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
