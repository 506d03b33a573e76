// Package completion describes lazybranch flags for shell completion.
package completion

import (
	"strings"

	"github.com/chmouel/lazybranch/internal/theme"
)

// FlagInfo contains metadata about a command-line flag for completion generation.
type FlagInfo struct {
	Name        string   // Flag name without dashes
	Description string   // Human-readable description
	HasValue    bool     // true for string flags, false for bool flags
	ValueHint   string   // Hint for value type (e.g., "DIR", "PATH", "NAME")
	Values      []string // Enumerated values for completion (e.g., theme names)
}

// GetFlags returns metadata for the global lazybranch flags.
func GetFlags() []FlagInfo {
	return []FlagInfo{
		{
			Name:        "repo",
			Description: "Path inside the repository",
			HasValue:    true,
			ValueHint:   "DIR",
		},
		{
			Name:        "branch",
			Description: "Open the delete dialog for a branch at startup",
			HasValue:    true,
			ValueHint:   "BRANCH",
		},
		{
			Name:        "debug-log",
			Description: "Path to debug log file",
			HasValue:    true,
			ValueHint:   "PATH",
		},
		{
			Name:        "theme",
			Description: "Override UI theme",
			HasValue:    true,
			ValueHint:   "NAME",
			Values:      theme.AvailableThemes(),
		},
		{
			Name:        "config-file",
			Description: "Path to configuration file",
			HasValue:    true,
			ValueHint:   "FILE",
		},
		{
			Name:        "config",
			Description: "Override a config value (lb.key=value)",
			HasValue:    true,
			ValueHint:   "KEY=VALUE",
			Values:      ConfigOverrides(""),
		},
	}
}

// configValues lists the accepted values of each configuration key.
var configValues = map[string][]string{
	"theme":        theme.AvailableThemes(),
	"platform":     {"darwin", "linux", "windows"},
	"force_delete": {"true", "false"},
	"auto_refresh": {"true", "false"},
	"debug_log":    nil,
}

// ConfigKeys returns the configuration keys in a stable order.
func ConfigKeys() []string {
	return []string{"theme", "platform", "force_delete", "auto_refresh", "debug_log"}
}

// ConfigOverrides suggests lb.key=value overrides starting with prefix.
func ConfigOverrides(prefix string) []string {
	var out []string
	for _, key := range ConfigKeys() {
		values := configValues[key]
		if len(values) == 0 {
			values = []string{""}
		}
		for _, v := range values {
			candidate := "lb." + key + "=" + v
			if strings.HasPrefix(candidate, prefix) {
				out = append(out, candidate)
			}
		}
	}
	return out
}

// FlagValues returns the enumerated values of a flag, if any.
func FlagValues(name string) []string {
	for _, f := range GetFlags() {
		if f.Name == name {
			return f.Values
		}
	}
	return nil
}
