package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Second, cfg.GetTimeout())
	assert.Equal(t, 10, cfg.MaxRedirects)
	assert.Equal(t, "console", cfg.Output)
	assert.False(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetNoHistory())
	assert.False(t, cfg.GetPretty())
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sophttp.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"timeout": 5000,
		"auth": "catmaid:secret",
		"noColor": true
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.GetTimeout())
	assert.Equal(t, "catmaid:secret", cfg.Auth)
	assert.True(t, cfg.GetNoColor())
	// Unset fields keep their defaults
	assert.Equal(t, 10, cfg.MaxRedirects)
	assert.True(t, cfg.GetValidateSSL())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFindAndLoadConfig_SearchOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sophttp.config.json"),
		[]byte(`{"timeout": 2000}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".sophttp.config.json"),
		[]byte(`{"timeout": 1000}`), 0o644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	// The dotted name wins, it is first in the search list
	assert.Equal(t, 1000, cfg.Timeout)
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Timeout, cfg.Timeout)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merge(&Config{
		Timeout: 1500,
		Auth:    "user:pass",
		NoColor: BoolPtr(true),
	})

	assert.Equal(t, 1500, merged.Timeout)
	assert.Equal(t, "user:pass", merged.Auth)
	assert.True(t, merged.GetNoColor())
	// Base untouched
	assert.Equal(t, 30000, base.Timeout)
	assert.False(t, base.GetNoColor())
}

func TestMerge_NilAndZeroValues(t *testing.T) {
	base := &Config{Timeout: 5000, Auth: "a:b", NoColor: BoolPtr(true)}

	assert.Same(t, base, base.Merge(nil))

	merged := base.Merge(&Config{})
	assert.Equal(t, 5000, merged.Timeout)
	assert.Equal(t, "a:b", merged.Auth)
	assert.True(t, merged.GetNoColor())
}

func TestMerge_ExplicitFalseOverrides(t *testing.T) {
	base := &Config{ValidateSSL: BoolPtr(true)}
	merged := base.Merge(&Config{ValidateSSL: BoolPtr(false)})

	assert.False(t, merged.GetValidateSSL())
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	cfg := &Config{Timeout: 4000, Verbose: BoolPtr(true)}

	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, loaded.Timeout)
	assert.True(t, loaded.GetVerbose())
}
