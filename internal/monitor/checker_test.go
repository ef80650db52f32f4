package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.tigermatt.uk/indicator"
	"go.tigermatt.uk/indicator/internal/config"
)

type fakeExec struct {
	outputs  map[string]string
	failures map[string]error
	commands []string
}

func (f *fakeExec) Exec(_ context.Context, h config.HostConfig, command string) (string, error) {
	f.commands = append(f.commands, h.Name+": "+command)
	if err := f.failures[command]; err != nil {
		return "", err
	}
	return f.outputs[command], nil
}

func hosts() []config.HostConfig {
	return []config.HostConfig{
		{
			Name:              "nas1",
			SmartctlPath:      "/usr/sbin/smartctl",
			Devices:           []string{"/dev/sda", "/dev/sdb"},
			WakeupWaitSeconds: 20,
		},
		{
			Name:         "nas2",
			SmartctlPath: "/bin/smartctl",
			Devices:      []string{"/dev/sata1"},
		},
	}
}

func TestCheckerWorstLevel(t *testing.T) {
	exec := &fakeExec{outputs: map[string]string{
		"sudo /usr/sbin/smartctl -H /dev/sda": "result: PASSED",
		"sudo /usr/sbin/smartctl -H /dev/sdb": "WARNING: reallocated sectors",
		"sudo /bin/smartctl -H /dev/sata1":    "result: PASSED",
	}}

	var waits []time.Duration
	c := &Checker{
		Exec: exec,
		Log:  zap.NewNop().Sugar(),
		Sleep: func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	}

	level, results, err := c.Check(context.Background(), hosts())
	require.NoError(t, err)

	assert.Equal(t, indicator.LevelNotice, level)
	require.Len(t, results, 3)
	assert.Equal(t, indicator.LevelNormal, results[0].Level)
	assert.Equal(t, indicator.LevelNotice, results[1].Level)
	assert.Equal(t, "nas2", results[2].Host)

	// Only the first device of nas1 waits for the host to wake.
	assert.Equal(t, []time.Duration{20 * time.Second}, waits)
	assert.Equal(t, []string{
		"nas1: sudo /usr/sbin/smartctl -H /dev/sda",
		"nas1: sudo /usr/sbin/smartctl -H /dev/sdb",
		"nas2: sudo /bin/smartctl -H /dev/sata1",
	}, exec.commands)
}

func TestCheckerUnreachableIsAlert(t *testing.T) {
	exec := &fakeExec{
		outputs: map[string]string{
			"sudo /usr/sbin/smartctl -H /dev/sda": "PASSED",
			"sudo /usr/sbin/smartctl -H /dev/sdb": "PASSED",
		},
		failures: map[string]error{
			"sudo /bin/smartctl -H /dev/sata1": errors.New("connection refused"),
		},
	}

	c := &Checker{Exec: exec, Log: zap.NewNop().Sugar(), Sleep: func(context.Context, time.Duration) error { return nil }}

	level, results, err := c.Check(context.Background(), hosts())
	require.NoError(t, err)
	assert.Equal(t, indicator.LevelAlert, level)
	assert.Error(t, results[2].Err)
}

func TestCheckerNothingConfigured(t *testing.T) {
	c := &Checker{Exec: &fakeExec{}, Log: zap.NewNop().Sugar()}

	level, results, err := c.Check(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, indicator.LevelOff, level)
	assert.Empty(t, results)
}

func TestCheckerCancelledDuringWakeup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	c := &Checker{Exec: exec, Log: zap.NewNop().Sugar()}

	_, _, err := c.Check(ctx, hosts())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, exec.commands)
}
