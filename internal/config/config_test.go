package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formbridge/formbridge/internal/config"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://forms.example.com\n"+
			"consumer_key: ck_1\n"+
			"consumer_secret: cs_1\n"+
			"timeout_seconds: 5\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://forms.example.com", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FORMBRIDGE_BASE_URL", "https://env.example.com")
	t.Setenv("FORMBRIDGE_CONSUMER_KEY", "ck_env")
	t.Setenv("FORMBRIDGE_CONSUMER_SECRET", "cs_env")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout(), "timeout defaults when unset")
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	t.Setenv("FORMBRIDGE_BASE_URL", "https://env.example.com")
	t.Setenv("FORMBRIDGE_CONSUMER_KEY", "")
	t.Setenv("FORMBRIDGE_CONSUMER_SECRET", "")

	cfg, err := config.Load("")
	require.NoError(t, err, "an incomplete config loads; only Validate rejects it")
	assert.ErrorContains(t, cfg.Validate(), "consumer_key")
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{BaseURL: "https://x", ConsumerKey: "k"}
	assert.ErrorContains(t, cfg.Validate(), "consumer_secret")

	cfg.ConsumerSecret = "s"
	assert.NoError(t, cfg.Validate())
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "formbridge.yaml")

	want := &config.Config{
		BaseURL:        "https://forms.example.com",
		ConsumerKey:    "ck_1",
		ConsumerSecret: "cs_1",
	}
	require.NoError(t, config.Write(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "credentials file must be owner-only")

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.BaseURL, got.BaseURL)
	assert.Equal(t, want.ConsumerSecret, got.ConsumerSecret)
}
