package config

import "time"

// Config holds runtime settings for the upload client.
type Config struct {
	APIBaseURL     string
	AccessToken    string
	FolderID       string
	RequestTimeout time.Duration
	LogLevel       string

	// Files are the positional arguments, in order.
	Files []string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api/v1"
	c.FolderID = "root"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file named by -c/-config (if
// any), then flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
