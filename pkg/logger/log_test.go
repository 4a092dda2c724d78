package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesFileAndHonoursLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")
	l := NewLogger("warn", file)
	require.NotNil(t, l)

	assert.False(t, l.Core().Enabled(-1)) // debug
	assert.True(t, l.Core().Enabled(1))   // warn
	assert.FileExists(t, file)
}

func TestNewLogger_UnknownLevelIsDebug(t *testing.T) {
	l := NewLogger("loud", "")
	assert.True(t, l.Core().Enabled(-1))
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.NotNil(t, l.Main)
	assert.NotNil(t, l.List)
	assert.NotNil(t, l.Export)
	assert.NotNil(t, l.Auth)
}
