// Package config assembles run configuration from compiled defaults, an
// optional TOML or YAML file, and SATVIS_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/naoina/toml"
	"gopkg.in/yaml.v3"

	"github.com/star/satvis/internal/transform"
	"github.com/star/satvis/internal/visibility"
)

// Defaults for the ground station and file locations.
const (
	DefaultInput        = "satellite_positions.csv"
	DefaultOutput       = "visible_times.txt"
	DefaultLatitudeDeg  = 78.7199
	DefaultLongitudeDeg = 20.3493
)

// StationConfig is the ground station location.
type StationConfig struct {
	LatitudeDeg  float64 `toml:"latitude" yaml:"latitude"`
	LongitudeDeg float64 `toml:"longitude" yaml:"longitude"`
	ElevationM   float64 `toml:"elevation_m" yaml:"elevation_m"`
}

// Config holds everything a run needs.
type Config struct {
	Input          string        `toml:"input" yaml:"input"`
	Output         string        `toml:"output" yaml:"output"`
	Station        StationConfig `toml:"station" yaml:"station"`
	MinAltitudeDeg float64       `toml:"min_altitude" yaml:"min_altitude"`
	MaxAltitudeDeg float64       `toml:"max_altitude" yaml:"max_altitude"`
	FrameModel     string        `toml:"frame_model" yaml:"frame_model"`
	WriteHeader    bool          `toml:"write_header" yaml:"write_header"`
	DetailFile     string        `toml:"detail_file" yaml:"detail_file"`
	MetricsFile    string        `toml:"metrics_file" yaml:"metrics_file"`
	PassGapSeconds int           `toml:"pass_gap_seconds" yaml:"pass_gap_seconds"`
	LogLevel       string        `toml:"log_level" yaml:"log_level"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Input:  DefaultInput,
		Output: DefaultOutput,
		Station: StationConfig{
			LatitudeDeg:  DefaultLatitudeDeg,
			LongitudeDeg: DefaultLongitudeDeg,
		},
		MinAltitudeDeg: visibility.DefaultMinAltitudeDeg,
		MaxAltitudeDeg: visibility.DefaultMaxAltitudeDeg,
		FrameModel:     string(transform.ModelApparent),
		LogLevel:       "info",
	}
}

// LoadFile reads a TOML (.toml) or YAML (.yaml, .yml) file over the defaults.
// Keys absent from the file keep their default values; unknown keys are errors.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config file extension %q (want .toml, .yaml or .yml)", ext)
	}

	return cfg, nil
}

// Validate checks ranges and names. It does not touch the filesystem.
func (c Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input path is empty"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	if c.Station.LatitudeDeg < -90 || c.Station.LatitudeDeg > 90 {
		errs = append(errs, fmt.Errorf("station latitude %g outside [-90, 90]", c.Station.LatitudeDeg))
	}
	if c.Station.LongitudeDeg < -180 || c.Station.LongitudeDeg >= 360 {
		errs = append(errs, fmt.Errorf("station longitude %g outside [-180, 360)", c.Station.LongitudeDeg))
	}
	if err := c.Window().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := transform.ParseModel(c.FrameModel); err != nil {
		errs = append(errs, err)
	}
	if c.PassGapSeconds < 0 {
		errs = append(errs, fmt.Errorf("pass gap %d seconds is negative", c.PassGapSeconds))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// GroundStation returns the configured ground station.
func (c Config) GroundStation() transform.Station {
	return transform.Station{
		LatitudeDeg:  c.Station.LatitudeDeg,
		LongitudeDeg: c.Station.LongitudeDeg,
		ElevationM:   c.Station.ElevationM,
	}
}

// Window returns the configured altitude band.
func (c Config) Window() visibility.Window {
	return visibility.Window{MinAltitudeDeg: c.MinAltitudeDeg, MaxAltitudeDeg: c.MaxAltitudeDeg}
}

// Model returns the configured frame model. Call Validate first.
func (c Config) Model() transform.Model {
	m, _ := transform.ParseModel(c.FrameModel)
	return m
}

// ParseLevel parses a slog level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// LogAttrs summarises the configuration for a startup log line.
func (c Config) LogAttrs() []any {
	return []any{
		"input", c.Input,
		"output", c.Output,
		"station_lat", c.Station.LatitudeDeg,
		"station_lon", c.Station.LongitudeDeg,
		"station_elevation_m", c.Station.ElevationM,
		"min_altitude", c.MinAltitudeDeg,
		"max_altitude", c.MaxAltitudeDeg,
		"frame_model", c.FrameModel,
		"write_header", c.WriteHeader,
	}
}
