// Package config loads runtime configuration for the upload client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the storage API
//	-t string   bearer access token
//	-f string   target folder id
//	-r int      request timeout (seconds)
//	-l string   log level: debug, info, warn, error
//
// Arguments that are not flags are the files to upload.
//
// # JSON schema
//
// Durations accept strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080/api/v1",
//	  "access_token": "...",
//	  "folder_id": "root",
//	  "request_timeout": "30s",
//	  "log_level": "info"
//	}
package config
