package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gcstorage/internal/flagx"
	"github.com/dmitrijs2005/gcstorage/internal/timex"
)

// JSONConfig is the JSON shape of Config. Durations accept "15m" or
// integer nanoseconds.
type JSONConfig struct {
	ListenAddr     string         `json:"listen_addr"`
	SecretKey      string         `json:"secret_key"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	PresignExpiry  timex.Duration `json:"presign_expiry"`
	SessionTTL     timex.Duration `json:"session_ttl"`
	VerifyObjects  *bool          `json:"verify_objects"`
	LogLevel       string         `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c/-config. Keys missing
// from the file keep their current value.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ListenAddr, jc.ListenAddr)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.PresignExpiry.Duration > 0 {
		cfg.PresignExpiry = jc.PresignExpiry.Duration
	}
	if jc.SessionTTL.Duration > 0 {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.VerifyObjects != nil {
		cfg.VerifyObjects = *jc.VerifyObjects
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
