// Package config loads the TOML-based engine configuration file
// (SPEC_FULL.md ambient stack), parsed with github.com/BurntSushi/toml,
// the teacher's vendored TOML dependency (pulled in transitively by
// fyne but never exercised directly in nitro-core-dx; here it gets a
// concrete home).
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the top-level shape of an engine config file, e.g.:
//
//	pixelCount = 512
//	framesPerSecond = 44
//
//	[output.preview]
//	enabled = true
//	gammaCorrection = 2
//	brightness = 1.0
//
//	[output.network]
//	enabled = true
//	addr = ":7070"
type Config struct {
	PixelCount      int     `toml:"pixelCount"`
	FramesPerSecond float64 `toml:"framesPerSecond"`

	Output OutputConfig `toml:"output"`
}

// OutputConfig configures the two built-in output sinks.
type OutputConfig struct {
	Preview PreviewSinkConfig `toml:"preview"`
	Network NetworkSinkConfig `toml:"network"`
}

// PreviewSinkConfig configures the SDL2 preview window sink.
type PreviewSinkConfig struct {
	Enabled         bool    `toml:"enabled"`
	GammaCorrection int     `toml:"gammaCorrection"`
	Brightness      float64 `toml:"brightness"`
}

// NetworkSinkConfig configures the websocket network output sink.
type NetworkSinkConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// Default returns a config with conservative, always-valid defaults,
// used when no config file is present.
func Default() Config {
	return Config{
		PixelCount:      512,
		FramesPerSecond: 44,
		Output: OutputConfig{
			Preview: PreviewSinkConfig{Enabled: true, Brightness: 1},
			Network: NetworkSinkConfig{Enabled: false, Addr: ":7070"},
		},
	}
}

// Load parses a TOML config file at path, filling in Default() for any
// field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: load %q: %w", path, err)
	}
	return cfg, nil
}
