package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFlagsHaveNames(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range GetFlags() {
		assert.NotEmpty(t, f.Name)
		assert.NotEmpty(t, f.Description)
		assert.False(t, seen[f.Name], "duplicate flag %s", f.Name)
		seen[f.Name] = true
		if len(f.Values) > 0 {
			assert.True(t, f.HasValue, "%s enumerates values but takes none", f.Name)
		}
	}
	assert.True(t, seen["theme"])
	assert.True(t, seen["branch"])
}

func TestFlagValues(t *testing.T) {
	assert.Contains(t, FlagValues("theme"), "dracula")
	assert.Nil(t, FlagValues("debug-log"))
	assert.Nil(t, FlagValues("unknown"))
}

func TestConfigOverrides(t *testing.T) {
	all := ConfigOverrides("")
	assert.Contains(t, all, "lb.platform=darwin")
	assert.Contains(t, all, "lb.debug_log=")

	assert.Equal(t, []string{"lb.force_delete=true", "lb.force_delete=false"}, ConfigOverrides("lb.force"))
	assert.Empty(t, ConfigOverrides("app."))
}

func TestConfigKeysHaveValues(t *testing.T) {
	for _, key := range ConfigKeys() {
		_, ok := configValues[key]
		assert.True(t, ok, "missing values entry for %s", key)
	}
}
