package painting

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a canvas and its surroundings
type Config struct {
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	Background     string `yaml:"background"`
	FrameRate      int    `yaml:"frame_rate"`
	SpillDir       string `yaml:"spill_dir"`
	SpillThreshold int    `yaml:"spill_threshold"`
	LogLevel       string `yaml:"log_level"`
	MetricsAddr    string `yaml:"metrics_addr"`
}

// DefaultConfig returns the settings used when no file is given
func DefaultConfig() Config {
	return Config{
		Width:          1024,
		Height:         600,
		Background:     "#ffffffff",
		FrameRate:      defaultFrameRate,
		SpillThreshold: DefaultSpillThreshold,
		LogLevel:       "info",
	}
}

// LoadConfig reads a YAML file over the defaults
func LoadConfig(fileName string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(fileName)
	if err != nil {
		return config, err
	}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse %s: %w", fileName, err)
	}
	return config, config.Validate()
}

// Validate checks the values that cannot be defaulted
func (config Config) Validate() error {
	if config.Width <= 0 || config.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", config.Width, config.Height)
	}
	if config.FrameRate <= 0 {
		return errors.New("frame_rate must be positive")
	}
	if _, err := config.BackgroundColor(); err != nil {
		return err
	}
	return nil
}

// BackgroundColor parses Background given as #rrggbb or #rrggbbaa
func (config Config) BackgroundColor() (color.NRGBA, error) {
	return ParseColor(config.Background)
}

// ParseColor parses #rrggbb or #rrggbbaa
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
