package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gcstorage/internal/flagx"
	"github.com/dmitrijs2005/gcstorage/internal/timex"
)

// JSONConfig is the on-disk shape of Config. Absent keys keep the
// previous value.
type JSONConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	AccessToken    string         `json:"access_token"`
	FolderID       string         `json:"folder_id"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
}

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

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.AccessToken != "" {
		cfg.AccessToken = jc.AccessToken
	}
	if jc.FolderID != "" {
		cfg.FolderID = jc.FolderID
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
