// Package config loads encoder presets from YAML and stores Huffman code
// length tables as msgpack files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	toycodec "github.com/llehouerou/go-toycodec"
)

// EncoderSection is the encoder part of a preset.
type EncoderSection struct {
	FrameWidth    int     `yaml:"frame_width"`
	Ratio         float64 `yaml:"ratio"`
	Quality       float64 `yaml:"quality"`
	Lowpass       float64 `yaml:"lowpass"`
	HuffmanTables string  `yaml:"huffman_tables,omitempty"`
}

// Config is an encoder preset.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Encoder  EncoderSection `yaml:"encoder"`

	// dir resolves a relative HuffmanTables path.
	dir string
}

// Default returns the preset matching toycodec.DefaultEncoderConfig.
func Default() *Config {
	d := toycodec.DefaultEncoderConfig()
	return &Config{
		LogLevel: d.LogLevel,
		Encoder: EncoderSection{
			FrameWidth: d.FrameWidth,
			Ratio:      d.Ratio,
			Quality:    d.Quality,
			Lowpass:    d.Lowpass,
		},
	}
}

// Parse reads a YAML preset from r. Fields missing from the document keep
// their defaults; an empty document yields Default().
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// Load reads the YAML preset at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	cfg, err := Parse(f)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// TablesPath returns the Huffman table file named by the preset, resolved
// against the preset's directory, or "" if none is named.
func (c *Config) TablesPath() string {
	p := c.Encoder.HuffmanTables
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// EncoderConfig converts the preset to encoder parameters, loading the
// Huffman table file when one is named.
func (c *Config) EncoderConfig() (toycodec.EncoderConfig, error) {
	ec := toycodec.DefaultEncoderConfig()
	ec.FrameWidth = c.Encoder.FrameWidth
	ec.Ratio = c.Encoder.Ratio
	ec.Quality = c.Encoder.Quality
	ec.Lowpass = c.Encoder.Lowpass
	if c.LogLevel != "" {
		ec.LogLevel = c.LogLevel
	}

	if path := c.TablesPath(); path != "" {
		t, err := LoadTablesFile(path)
		if err != nil {
			return ec, err
		}
		ec.HuffmanLengths = &t
	}
	return ec, nil
}
