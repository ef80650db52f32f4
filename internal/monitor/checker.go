package monitor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go.tigermatt.uk/indicator"
	"go.tigermatt.uk/indicator/internal/config"
)

// Executor runs a command on a host and returns its combined output.
type Executor interface {
	Exec(ctx context.Context, h config.HostConfig, command string) (string, error)
}

// Result is the verdict for one device.
type Result struct {
	Host   string
	Device string
	Level  indicator.AlertLevel
	Output string
	Err    error
}

// Checker runs smartctl against every configured device.
type Checker struct {
	Exec Executor
	Log  *zap.SugaredLogger

	// Sleep waits for a sleeping host to wake up; ctx-aware sleep when nil.
	Sleep func(ctx context.Context, d time.Duration) error
}

// SmartctlCommand is the health query run for one device.
func SmartctlCommand(h config.HostConfig, device string) string {
	return fmt.Sprintf("sudo %s -H %s", h.SmartctlPath, device)
}

// Check returns the worst level across all devices, LevelOff when there is
// nothing to check. A device that cannot be reached counts as an alert. The
// error is only set when ctx ends the run early.
func (c *Checker) Check(ctx context.Context, hosts []config.HostConfig) (indicator.AlertLevel, []Result, error) {
	wait := c.Sleep
	if wait == nil {
		wait = sleep
	}

	worst := indicator.LevelOff
	var results []Result

	for _, h := range hosts {
		c.Log.Infow("checking host", "host", h.Name, "devices", len(h.Devices))

		// Only the first connection to a host has to wait for it to spin up.
		wakeup := h.WakeupWait()

		for _, dev := range h.Devices {
			if wakeup > 0 {
				c.Log.Infow("waiting for host to wake up", "host", h.Name, "wait", wakeup)
				if err := wait(ctx, wakeup); err != nil {
					return worst, results, err
				}
				wakeup = 0
			}

			out, err := c.Exec.Exec(ctx, h, SmartctlCommand(h, dev))
			if ctx.Err() != nil {
				return worst, results, ctx.Err()
			}

			r := Result{Host: h.Name, Device: dev, Output: out, Err: err}
			if err != nil {
				r.Level = indicator.LevelAlert
				c.Log.Errorw("health check failed", "host", h.Name, "device", dev, "err", err)
			} else {
				r.Level = HealthLevel(out)
				c.Log.Debugw("smartctl output", "host", h.Name, "device", dev, "output", out)
			}
			c.Log.Infow("health", "host", h.Name, "device", dev, "level", int(r.Level))

			results = append(results, r)
			if r.Level > worst {
				worst = r.Level
			}
		}
	}

	return worst, results, nil
}
