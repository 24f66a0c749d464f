// Package config holds the render and server settings, read from a YAML
// file when one is given.
package config

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/jsphweid/notetree/constants"
	"github.com/jsphweid/notetree/synth"
	"github.com/pkg/errors"
)

type Config struct {
	// SampleRate of rendered audio in Hz
	SampleRate int `yaml:"sample_rate"`

	// BarDurationMs is how long one bar lasts when played
	BarDurationMs int `yaml:"bar_duration_ms"`

	// NoteLength is the fraction of a bar a note rings for
	NoteLength float64 `yaml:"note_length"`

	Volume float64 `yaml:"volume"`

	// MaxRenderSeconds caps the length of rendered audio, 0 for no cap
	MaxRenderSeconds int `yaml:"max_render_seconds"`

	// BeatsPerBar and TicksPerQuarter control MIDI import and export
	BeatsPerBar     int `yaml:"beats_per_bar"`
	TicksPerQuarter int `yaml:"ticks_per_quarter"`

	ListenAddr     string   `yaml:"listen_addr"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`

	// WatchIntervalMs is how often watch polls the score file and
	// DebounceMs how long it waits for changes to settle
	WatchIntervalMs int `yaml:"watch_interval_ms"`
	DebounceMs      int `yaml:"debounce_ms"`
}

func Default() *Config {
	return &Config{
		SampleRate:       constants.DefaultSampleRate,
		BarDurationMs:    2000,
		NoteLength:       0.25,
		Volume:           0.8,
		MaxRenderSeconds: 600,
		BeatsPerBar:      constants.DefaultBeatsPerBar,
		TicksPerQuarter:  constants.DefaultTicksPerQuarter,
		ListenAddr:       ":8080",
		AllowedOrigins:   []string{"*"},
		WatchIntervalMs:  250,
		DebounceMs:       500,
	}
}

// Load reads path over the defaults. An empty path, or one that doesn't
// exist, gives the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read config")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "could not parse config %v", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %v", path)
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return errors.New("sample_rate must be positive")
	case c.BarDurationMs <= 0:
		return errors.New("bar_duration_ms must be positive")
	case c.NoteLength <= 0:
		return errors.New("note_length must be positive")
	case c.Volume <= 0 || c.Volume > 1:
		return errors.New("volume must be in (0,1]")
	case c.MaxRenderSeconds < 0:
		return errors.New("max_render_seconds must not be negative")
	case c.BeatsPerBar <= 0:
		return errors.New("beats_per_bar must be positive")
	case c.TicksPerQuarter <= 0 || c.TicksPerQuarter > 0x7fff:
		return errors.New("ticks_per_quarter must be in [1,32767]")
	}
	return nil
}

func (c *Config) BarDuration() time.Duration {
	return time.Duration(c.BarDurationMs) * time.Millisecond
}

// BPM is the tempo at which BeatsPerBar quarter notes fill one bar.
func (c *Config) BPM() float64 {
	return float64(c.BeatsPerBar) * 60000 / float64(c.BarDurationMs)
}

func (c *Config) Synth() synth.Config {
	return synth.Config{
		SampleRate:  c.SampleRate,
		BarDuration: c.BarDuration(),
		NoteLength:  c.NoteLength,
		Volume:      c.Volume,
		MaxDuration: time.Duration(c.MaxRenderSeconds) * time.Second,
	}
}

func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.WatchIntervalMs) * time.Millisecond
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}
