package config

import (
	"fmt"

	"go.tigermatt.uk/indicator/internal/logger"
)

// Validate checks configuration correctness. It never mutates cfg.
func Validate(cfg *Config) error {
	if cfg.Serial.Baud <= 0 {
		return fmt.Errorf("serial: baud must be > 0, got %d", cfg.Serial.Baud)
	}
	if cfg.Serial.BootWaitMs < 0 {
		return fmt.Errorf("serial: boot_wait_ms must be >= 0, got %d", cfg.Serial.BootWaitMs)
	}

	if cfg.Display.DwellMs <= 0 {
		return fmt.Errorf("display: dwell_ms must be > 0, got %d", cfg.Display.DwellMs)
	}
	if cfg.Display.MaxBrightness < 1 || cfg.Display.MaxBrightness > 255 {
		return fmt.Errorf("display: max_brightness must be in 1..255, got %d", cfg.Display.MaxBrightness)
	}
	if cfg.Display.MaxLine < 8 {
		return fmt.Errorf("display: max_line must be >= 8, got %d", cfg.Display.MaxLine)
	}

	if !logger.Valid(cfg.Log.Level) {
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}

	return validateMonitor(cfg.Monitor)
}

// validateMonitor checks the host-side section only.
func validateMonitor(m MonitorConfig) error {
	if m.Retries < 1 {
		return fmt.Errorf("monitor: retries must be >= 1, got %d", m.Retries)
	}
	if m.ConnectTimeoutMs <= 0 {
		return fmt.Errorf("monitor: connect_timeout_ms must be > 0, got %d", m.ConnectTimeoutMs)
	}
	if m.RetryWaitMs < 0 {
		return fmt.Errorf("monitor: retry_wait_ms must be >= 0, got %d", m.RetryWaitMs)
	}

	names := make(map[string]struct{}, len(m.Hosts))

	for i, h := range m.Hosts {
		if h.Name == "" {
			return fmt.Errorf("monitor: host #%d has no name", i)
		}
		if _, dup := names[h.Name]; dup {
			return fmt.Errorf("monitor: duplicate host name %q", h.Name)
		}
		names[h.Name] = struct{}{}

		switch {
		case h.Host == "":
			return fmt.Errorf("monitor: host %q: host required", h.Name)
		case h.User == "":
			return fmt.Errorf("monitor: host %q: user required", h.Name)
		case h.SSHKeyPath == "":
			return fmt.Errorf("monitor: host %q: ssh_key_path required", h.Name)
		case h.SmartctlPath == "":
			return fmt.Errorf("monitor: host %q: smartctl_path required", h.Name)
		case h.Port < 1 || h.Port > 65535:
			return fmt.Errorf("monitor: host %q: port %d out of range", h.Name, h.Port)
		case h.WakeupWaitSeconds < 0:
			return fmt.Errorf("monitor: host %q: wakeup_wait_seconds must be >= 0", h.Name)
		}

		for _, d := range h.Devices {
			if d == "" {
				return fmt.Errorf("monitor: host %q: empty device path", h.Name)
			}
		}
	}

	return nil
}
