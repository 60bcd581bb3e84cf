package painting

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "painting.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte("width: 320\nheight: 240\nbackground: \"#102030\"\nspill_dir: /tmp/slices\n"), 0644))

	config, err := LoadConfig(fileName)
	require.NoError(t, err)
	assert.Equal(t, 320, config.Width)
	assert.Equal(t, 240, config.Height)
	assert.Equal(t, "/tmp/slices", config.SpillDir)
	assert.Equal(t, DefaultConfig().FrameRate, config.FrameRate)
	assert.Equal(t, DefaultSpillThreshold, config.SpillThreshold)

	background, err := config.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}, background)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("width: [1, 2"), 0644))
	_, err = LoadConfig(broken)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("width: 0\n"), 0644))
	_, err = LoadConfig(invalid)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	config := DefaultConfig()
	config.FrameRate = 0
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.Background = "white"
	assert.Error(t, config.Validate())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff000080")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 0x80}, c)

	c, err = ParseColor("00ff00")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 0xFF, A: 0xFF}, c)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
	_, err = ParseColor("#gg0000")
	assert.Error(t, err)
}
