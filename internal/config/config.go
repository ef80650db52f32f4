// Package config loads the indicator's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Port       string `yaml:"port"`
	Baud       int    `yaml:"baud"`
	BootWaitMs int    `yaml:"boot_wait_ms"` // device resets when the port opens
}

// ---- DISPLAY ----

type DisplayConfig struct {
	DwellMs       int `yaml:"dwell_ms"`
	MaxBrightness int `yaml:"max_brightness"`
	MaxLine       int `yaml:"max_line"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}

// ---- MONITOR (host side) ----

type MonitorConfig struct {
	ConnectTimeoutMs int          `yaml:"connect_timeout_ms"`
	Retries          int          `yaml:"retries"`
	RetryWaitMs      int          `yaml:"retry_wait_ms"`
	Hosts            []HostConfig `yaml:"hosts"`
}

type HostConfig struct {
	Name              string   `yaml:"name"`
	Host              string   `yaml:"host"`
	Port              int      `yaml:"port"`
	User              string   `yaml:"user"`
	SSHKeyPath        string   `yaml:"ssh_key_path"`
	KnownHosts        string   `yaml:"known_hosts"` // empty: host key not checked
	SmartctlPath      string   `yaml:"smartctl_path"`
	Devices           []string `yaml:"devices"`
	WakeupWaitSeconds int      `yaml:"wakeup_wait_seconds"`
}

// Load reads path. A missing file yields an empty config when optional is set,
// so everything can come from flags.
func Load(path string, optional bool) (*Config, error) {
	cfg := &Config{}

	b, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
