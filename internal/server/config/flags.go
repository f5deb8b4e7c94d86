package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gcstorage/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   JWT HMAC secret key, empty disables auth
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      presigned URL validity, minutes
//	-n int      upload session TTL, minutes
//	-v bool     verify objects in storage on completion (use -v=false to disable)
//	-l string   log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-u", "-p", "-b", "-g", "-e", "-x", "-n", "-v", "-l"})

	fs := flag.NewFlagSet("gcserver", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	presign := fs.Int("x", int(cfg.PresignExpiry.Minutes()), "presigned URL validity (in minutes)")
	ttl := fs.Int("n", int(cfg.SessionTTL.Minutes()), "upload session TTL (in minutes)")
	fs.BoolVar(&cfg.VerifyObjects, "v", cfg.VerifyObjects, "verify uploaded objects")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "x":
			cfg.PresignExpiry, err = minutes("x", *presign)
		case "n":
			cfg.SessionTTL, err = minutes("n", *ttl)
		}
	})
	return err
}

func minutes(name string, v int) (time.Duration, error) {
	if v <= 0 {
		return 0, fmt.Errorf("parse flags: -%s must be positive, got %d", name, v)
	}
	return time.Duration(v) * time.Minute, nil
}
