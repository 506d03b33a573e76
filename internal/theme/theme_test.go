package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	for _, name := range AvailableThemes() {
		t.Run(name, func(t *testing.T) {
			thm := GetTheme(name)
			assert.NotNil(t, thm)
			assert.NotEmpty(t, thm.Accent)
			assert.NotEmpty(t, thm.WarnFg)
			assert.NotEmpty(t, thm.ErrorFg)
		})
	}
}

func TestGetThemeFallsBackToDracula(t *testing.T) {
	assert.Equal(t, Dracula(), GetTheme("does-not-exist"))
}

func TestIsLight(t *testing.T) {
	assert.True(t, IsLight(DraculaLightName))
	assert.False(t, IsLight(NordName))
}
