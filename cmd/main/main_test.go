package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, loadEnv(""))
	assert.NoError(t, loadEnv(filepath.Join(dir, "missing.env")))

	t.Setenv("TWITCH_OAUTH_TOKEN", "")
	require.NoError(t, os.Unsetenv("TWITCH_OAUTH_TOKEN"))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TWITCH_OAUTH_TOKEN=fromdotenv\n"), 0600))
	require.NoError(t, loadEnv(path))
	assert.Equal(t, "fromdotenv", os.Getenv("TWITCH_OAUTH_TOKEN"))

	assert.Error(t, loadEnv(dir))
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()

	for name, want := range map[string]string{
		"config":   "twitch_client_config.toml",
		"log-file": "logs/main.log",
		"env-file": ".env",
	} {
		f := cmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, want, f.DefValue, name)
	}
}
