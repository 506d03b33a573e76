package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/chmouel/lazybranch/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	gitConfigMock = func(_ []string, _ string) (string, error) { return "", nil }
	t.Cleanup(func() { gitConfigMock = nil })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, normalizePlatform(runtime.GOOS), cfg.Platform)
	assert.False(t, cfg.ForceDelete)
	assert.True(t, cfg.AutoRefresh)
	assert.Empty(t, cfg.Theme)
	assert.Empty(t, cfg.DebugLog)
}

func TestNormalizePlatform(t *testing.T) {
	tests := map[string]string{
		"darwin":  PlatformDarwin,
		" macOS ": PlatformDarwin,
		"windows": PlatformWindows,
		"linux":   PlatformLinux,
		"freebsd": PlatformLinux,
		"":        PlatformLinux,
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, normalizePlatform(input))
		})
	}
}

func TestCoerceBool(t *testing.T) {
	assert.True(t, coerceBool(true, false))
	assert.True(t, coerceBool("yes", false))
	assert.True(t, coerceBool(1, false))
	assert.False(t, coerceBool("off", true))
	assert.False(t, coerceBool(0, true))
	assert.True(t, coerceBool("garbage", true))
	assert.False(t, coerceBool(nil, false))
}

func TestParseConfig(t *testing.T) {
	cfg := parseConfig(map[string]any{
		"theme":        "Nord",
		"debug_log":    "  /tmp/lb.log ",
		"platform":     "darwin",
		"force_delete": true,
		"auto_refresh": "false",
	})

	assert.Equal(t, theme.NordName, cfg.Theme)
	assert.Equal(t, "/tmp/lb.log", cfg.DebugLog)
	assert.Equal(t, PlatformDarwin, cfg.Platform)
	assert.True(t, cfg.ForceDelete)
	assert.False(t, cfg.AutoRefresh)
}

func TestParseConfigIgnoresInvalidValues(t *testing.T) {
	cfg := parseConfig(map[string]any{
		"theme":     "not-a-theme",
		"debug_log": "   ",
		"platform":  "",
	})

	assert.Empty(t, cfg.Theme)
	assert.Empty(t, cfg.DebugLog)
	assert.Equal(t, DefaultConfig().Platform, cfg.Platform)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := isolateConfig(t)
	configDir := filepath.Join(dir, "lazybranch")
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("theme: monokai\nforce_delete: true\nplatform: windows\n"), 0o600))

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, theme.MonokaiName, cfg.Theme)
	assert.True(t, cfg.ForceDelete)
	assert.Equal(t, PlatformWindows, cfg.Platform)
}

func TestLoadConfigGitConfigOverridesYAML(t *testing.T) {
	dir := isolateConfig(t)
	configDir := filepath.Join(dir, "lazybranch")
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte("theme: monokai\n"), 0o600))

	gitConfigMock = func(args []string, _ string) (string, error) {
		if args[len(args)-1] == "--local" {
			return "lb.theme nord\n", nil
		}
		return "lb.theme dracula-light\nlb.auto_refresh false\n", nil
	}

	cfg, err := LoadConfig("", "/some/repo")
	require.NoError(t, err)
	assert.Equal(t, theme.NordName, cfg.Theme)
	assert.False(t, cfg.AutoRefresh)
}

func TestLoadConfigRejectsPathOutsideConfigDir(t *testing.T) {
	isolateConfig(t)
	outside := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(outside, []byte("theme: nord\n"), 0o600))

	cfg, err := LoadConfig(outside, "")
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := isolateConfig(t)
	configDir := filepath.Join(dir, "lazybranch")
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	path := filepath.Join(configDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unterminated\n"), 0o600))

	_, err := LoadConfig(path, "")
	require.Error(t, err)
}

func TestLoadConfigDetectsThemeWhenUnset(t *testing.T) {
	isolateConfig(t)

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)
	assert.Contains(t, []string{theme.DraculaName, theme.DraculaLightName}, cfg.Theme)
}

func TestApplyCLIOverrides(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyCLIOverrides([]string{"lb.force_delete=true", "lb.platform=darwin"}))
	assert.True(t, cfg.ForceDelete)
	assert.Equal(t, PlatformDarwin, cfg.Platform)

	require.Error(t, cfg.ApplyCLIOverrides([]string{"theme=nord"}))
}

func TestIsPathWithin(t *testing.T) {
	base := filepath.Join(string(os.PathSeparator), "home", "u", ".config", "lazybranch")
	assert.True(t, isPathWithin(base, filepath.Join(base, "config.yaml")))
	assert.True(t, isPathWithin(base, base))
	assert.False(t, isPathWithin(base, filepath.Join(base, "..", "other.yaml")))
}
