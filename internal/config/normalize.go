package config

import "time"

// Defaults.
const (
	DefaultBaud             = 9600
	DefaultBootWaitMs       = 2000
	DefaultDwellMs          = 1500
	DefaultMaxBrightness    = 255
	DefaultMaxLine          = 64
	DefaultLogLevel         = "info"
	DefaultSSHPort          = 22
	DefaultConnectTimeoutMs = 10000
	DefaultRetries          = 3
	DefaultRetryWaitMs      = 5000
	DefaultSerialPort       = "/dev/ttyACM0"
)

// Normalize fills unset fields with defaults. Call it before Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Serial.Port == "" {
		cfg.Serial.Port = DefaultSerialPort
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = DefaultBaud
	}
	if cfg.Serial.BootWaitMs == 0 {
		cfg.Serial.BootWaitMs = DefaultBootWaitMs
	}

	if cfg.Display.DwellMs == 0 {
		cfg.Display.DwellMs = DefaultDwellMs
	}
	if cfg.Display.MaxBrightness == 0 {
		cfg.Display.MaxBrightness = DefaultMaxBrightness
	}
	if cfg.Display.MaxLine == 0 {
		cfg.Display.MaxLine = DefaultMaxLine
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	m := &cfg.Monitor
	if m.ConnectTimeoutMs == 0 {
		m.ConnectTimeoutMs = DefaultConnectTimeoutMs
	}
	if m.Retries == 0 {
		m.Retries = DefaultRetries
	}
	if m.RetryWaitMs == 0 {
		m.RetryWaitMs = DefaultRetryWaitMs
	}

	for i := range m.Hosts {
		h := &m.Hosts[i]
		if h.Port == 0 {
			h.Port = DefaultSSHPort
		}
		if h.Name == "" {
			h.Name = h.Host
		}
	}
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func (s SerialConfig) BootWait() time.Duration { return ms(s.BootWaitMs) }

func (d DisplayConfig) Dwell() time.Duration { return ms(d.DwellMs) }

func (m MonitorConfig) ConnectTimeout() time.Duration { return ms(m.ConnectTimeoutMs) }

func (m MonitorConfig) RetryWait() time.Duration { return ms(m.RetryWaitMs) }

func (h HostConfig) WakeupWait() time.Duration {
	return time.Duration(h.WakeupWaitSeconds) * time.Second
}
