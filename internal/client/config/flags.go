package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dmitrijs2005/gcstorage/internal/flagx"
)

var valueFlags = []string{"-a", "-t", "-f", "-r", "-l"}

func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("gcupload", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the storage API")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "bearer access token")
	fs.StringVar(&cfg.FolderID, "f", cfg.FolderID, "target folder id")
	timeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, valueFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// -r only overrides when given, so sub-second JSON values survive.
	var err error
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "r" {
			return
		}
		if *timeout <= 0 {
			err = fmt.Errorf("parse flags: request timeout must be positive, got %d", *timeout)
			return
		}
		cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	})
	if err != nil {
		return err
	}

	cfg.Files = flagx.Positional(args, slices.Concat(valueFlags, []string{"-c", "-config"}))
	return nil
}
