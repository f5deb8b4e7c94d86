package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, "admin", c.S3RootUser)
	assert.Equal(t, "secretpassword", c.S3RootPassword)
	assert.Equal(t, "uploads", c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "http://127.0.0.1:9000/", c.S3BaseEndpoint)
	assert.Equal(t, 15*time.Minute, c.PresignExpiry)
	assert.Equal(t, time.Hour, c.SessionTTL)
	assert.True(t, c.VerifyObjects)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_Flags(t *testing.T) {
	c, err := LoadConfig([]string{"-a", ":9090", "-s", "k", "-b", "media", "-x", "5", "-n", "30", "-v=false", "-l", "debug"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.ListenAddr)
	assert.Equal(t, "k", c.SecretKey)
	assert.Equal(t, "media", c.S3Bucket)
	assert.Equal(t, 5*time.Minute, c.PresignExpiry)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.False(t, c.VerifyObjects)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "admin", c.S3RootUser)
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	path := writeTempJSON(t, `{
		"listen_addr": "127.0.0.1:7000",
		"secret_key": "json-secret",
		"s3_bucket": "json-bucket",
		"s3_base_endpoint": "http://minio:9000",
		"presign_expiry": "90s",
		"session_ttl": "2h",
		"verify_objects": false
	}`)

	c, err := LoadConfig([]string{"-c", path, "-b", "flag-bucket"})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", c.ListenAddr)
	assert.Equal(t, "json-secret", c.SecretKey)
	assert.Equal(t, "flag-bucket", c.S3Bucket)
	assert.Equal(t, "http://minio:9000", c.S3BaseEndpoint)
	assert.Equal(t, 90*time.Second, c.PresignExpiry)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.False(t, c.VerifyObjects)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad minutes", []string{"-x", "soon"}},
		{"zero ttl", []string{"-n", "0"}},
		{"missing file", []string{"-config", filepath.Join(t.TempDir(), "none.json")}},
		{"bad json", []string{"-c", writeTempJSON(t, `{"session_ttl": []}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args)
			require.Error(t, err)
		})
	}
}
