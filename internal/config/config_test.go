package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RORITWITCH_HOME", home)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.False(t, cfg.IsValid())
	assert.Equal(t, defaultMaxMessages, cfg.Frontend.MaxMessages)
	assert.Equal(t, defaultFetchTimeout, cfg.Frontend.FetchTimeout)
	assert.FileExists(t, filepath.Join(home, ".roritwitch", "config.yaml"))
	assert.Equal(t, filepath.Join(home, ".roritwitch", "roritwitch.log"), cfg.LogPath())
}

func TestLoadFrom_ReadsProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
active_profile: main
profiles:
  main:
    username: modbot
    token: abcdef123456
    channel: "#SomeStreamer"
frontend:
  only_get_live_followed_channels: true
  fetch_timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsValid())
	assert.Equal(t, "somestreamer", cfg.Current().Channel)
	assert.True(t, cfg.Frontend.OnlyLiveFollowed)
	assert.Equal(t, 3*time.Second, cfg.Frontend.FetchTimeout)
	assert.Equal(t, defaultMaxMessages, cfg.Frontend.MaxMessages)
}

func TestLoadFrom_FallsBackToAnyProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
active_profile: missing
profiles:
  other:
    username: someone
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.ActiveProfile)
	assert.Equal(t, "someone", cfg.Current().Username)
}

func TestSetChannelAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	cfg.SetChannel("  #NewChannel ")
	assert.Equal(t, "newchannel", cfg.Current().Channel)
	require.NoError(t, cfg.Save())

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "newchannel", reloaded.Current().Channel)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestUseProfile(t *testing.T) {
	cfg := &Config{
		Profiles:      map[string]Profile{"a": {Username: "a"}, "b": {Username: "b"}},
		ActiveProfile: "a",
	}
	require.NoError(t, cfg.setCurrentProfile())

	require.NoError(t, cfg.UseProfile("b"))
	assert.Equal(t, "b", cfg.Current().Username)
	assert.Error(t, cfg.UseProfile("c"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "(empty)", MaskSecret(" "))
	assert.Equal(t, "***", MaskSecret("abc"))
	assert.Equal(t, "ab***yz", MaskSecret("abcdefxyz"))
}

func TestSummaryMasksToken(t *testing.T) {
	cfg := &Config{
		Profiles:      map[string]Profile{"main": {Username: "u", Token: "supersecrettoken", Channel: "c"}},
		ActiveProfile: "main",
	}
	require.NoError(t, cfg.setCurrentProfile())
	summary := cfg.Summary()
	assert.NotContains(t, summary, "supersecrettoken")
	assert.Contains(t, summary, "su***en")
}
