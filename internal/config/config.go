// Package config loads lazybranch configuration from YAML, git config and
// command line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chmouel/lazybranch/internal/theme"
	"gopkg.in/yaml.v3"
)

// Platform names understood by the platform setting.
const (
	PlatformDarwin  = "darwin"
	PlatformLinux   = "linux"
	PlatformWindows = "windows"
)

// AppConfig defines the global lazybranch configuration options.
type AppConfig struct {
	Theme       string // Theme name: see AvailableThemes in internal/theme
	DebugLog    string
	Platform    string // Controls platform-specific wording such as dialog titles
	ForceDelete bool   // Delete local branches with -D instead of -d
	AutoRefresh bool   // Reload the branch list when refs change on disk
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Platform:    normalizePlatform(runtime.GOOS),
		ForceDelete: false,
		AutoRefresh: true,
	}
}

func normalizePlatform(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "darwin", "macos", "mac", "osx":
		return PlatformDarwin
	case "windows", "win":
		return PlatformWindows
	default:
		return PlatformLinux
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y", "on":
			return true
		case "false", "0", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

// applyConfigData overlays parsed key/value data on cfg. Unknown keys and
// invalid values are ignored.
func applyConfigData(cfg *AppConfig, data map[string]any) {
	if debugLog, ok := data["debug_log"].(string); ok {
		debugLog = strings.TrimSpace(debugLog)
		if debugLog != "" {
			cfg.DebugLog = debugLog
		}
	}

	if themeName, ok := data["theme"].(string); ok {
		if normalized := NormalizeThemeName(themeName); normalized != "" {
			cfg.Theme = normalized
		}
	}

	if platform, ok := data["platform"].(string); ok && strings.TrimSpace(platform) != "" {
		cfg.Platform = normalizePlatform(platform)
	}

	cfg.ForceDelete = coerceBool(data["force_delete"], cfg.ForceDelete)
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	applyConfigData(cfg, data)
	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the application configuration. The YAML file is read
// first, then global and repository git config (lb.* keys) are layered on top.
// repoPath may be empty, in which case only global git config is consulted.
func LoadConfig(configPath, repoPath string) (*AppConfig, error) {
	data, err := loadYAMLConfig(configPath)
	if err != nil {
		return DefaultConfig(), err
	}

	if global, err := loadGitConfig(true, ""); err == nil {
		mergeData(data, global)
	}
	if repoPath != "" {
		if local, err := loadGitConfig(false, repoPath); err == nil {
			mergeData(data, local)
		}
	}

	cfg := parseConfig(data)
	if cfg.Theme == "" {
		cfg.Theme = theme.Detect()
	}
	return cfg, nil
}

func loadYAMLConfig(configPath string) (map[string]any, error) {
	configBase := filepath.Clean(filepath.Join(getConfigDir(), "lazybranch"))

	var paths []string
	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return nil, err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return nil, err
		}
		if !isPathWithin(configBase, absPath) {
			return nil, fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	for _, path := range paths {
		// #nosec G304 -- path is constrained to the config directory after validation
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(raw, &yamlData); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if yamlData == nil {
			yamlData = map[string]any{}
		}
		return yamlData, nil
	}

	return map[string]any{}, nil
}

func mergeData(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}

// ApplyCLIOverrides applies --config lb.key=value overrides, which take
// precedence over every other source.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyConfigData(cfg, data)
	return nil
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}

// NormalizeThemeName returns the canonical theme name if it is supported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, known := range theme.AvailableThemes() {
		if name == known {
			return name
		}
	}
	return ""
}
