package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with optional booleans so an absent key never
// overrides the current value.
type fileConfig struct {
	CPUInterval     time.Duration `yaml:"cpu_interval"`
	MemoryInterval  time.Duration `yaml:"memory_interval"`
	DiskInterval    time.Duration `yaml:"disk_interval"`
	NetworkInterval time.Duration `yaml:"network_interval"`
	ProcessInterval time.Duration `yaml:"process_interval"`

	CPUAlertThreshold    float64 `yaml:"cpu_alert_threshold"`
	MemoryAlertThreshold float64 `yaml:"memory_alert_threshold"`
	RefreshRate          int     `yaml:"refresh_rate"`

	ShowPerCore       *bool  `yaml:"show_per_core"`
	UseColors         *bool  `yaml:"use_colors"`
	ExpandTree        *bool  `yaml:"expand_tree"`
	MaxProcessDisplay int    `yaml:"max_process_display"`
	SortBy            string `yaml:"sort_by"`

	Source       string  `yaml:"source"`
	CPUSmoothing float64 `yaml:"cpu_smoothing"`
}

// LoadFile merges the YAML file at path onto c.
// Durations, thresholds and counts override only when > 0; strings only when
// non-empty; booleans only when present. Unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return c.merge(b)
}

func (c *Config) merge(b []byte) error {
	var f fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	// Positive-only overrides
	setDur(&c.CPUInterval, f.CPUInterval)
	setDur(&c.MemoryInterval, f.MemoryInterval)
	setDur(&c.DiskInterval, f.DiskInterval)
	setDur(&c.NetworkInterval, f.NetworkInterval)
	setDur(&c.ProcessInterval, f.ProcessInterval)
	if f.CPUAlertThreshold > 0 {
		c.CPUAlertThreshold = f.CPUAlertThreshold
	}
	if f.MemoryAlertThreshold > 0 {
		c.MemoryAlertThreshold = f.MemoryAlertThreshold
	}
	if f.RefreshRate > 0 {
		c.RefreshRate = f.RefreshRate
	}
	if f.MaxProcessDisplay > 0 {
		c.MaxProcessDisplay = f.MaxProcessDisplay
	}
	if f.CPUSmoothing > 0 {
		c.CPUSmoothing = f.CPUSmoothing
	}
	if f.SortBy != "" {
		c.SortBy = f.SortBy
	}
	if f.Source != "" {
		c.Source = f.Source
	}

	// Booleans: presence wins, false included.
	setBool(&c.ShowPerCore, f.ShowPerCore)
	setBool(&c.UseColors, f.UseColors)
	setBool(&c.ExpandTree, f.ExpandTree)
	return nil
}

// YAML renders c in the format LoadFile reads.
func (c Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setDur(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
