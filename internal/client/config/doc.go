// Package config loads runtime configuration for the memokeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally loaded from a dotenv file given
//     with -env. Variables already set in the process win over the file.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// Environment
//
//	MEMOKEEPER_SERVER_URL            base URL of the resource server
//	MEMOKEEPER_REQUEST_TIMEOUT       per-request timeout, e.g. "10s"
//	MEMOKEEPER_MAX_UPLOAD_SIZE_MIB   fallback upload limit
//	MEMOKEEPER_ONLINE_CHECK_INTERVAL e.g. "3s"
//	MEMOKEEPER_LOG_LEVEL             debug, info, warn or error
//
// Supported flags
//
//	-s string   base URL of the resource server
//	-t int      request timeout (seconds)
//	-m int      fallback upload limit (MiB)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations are timex.Duration values, either strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8081",
//	  "request_timeout": "10s",
//	  "max_upload_size_mib": 32,
//	  "online_check_interval": "3s",
//	  "log_level": "info"
//	}
//
// Invalid values in any source cause a panic during LoadConfig.
package config
