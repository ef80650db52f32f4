package indicator

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testPort reads from a pipe and collects what the device writes back.
type testPort struct {
	r io.Reader

	mu  sync.Mutex
	out bytes.Buffer
}

func (p *testPort) Read(bs []byte) (int, error) {
	return p.r.Read(bs)
}

func (p *testPort) Write(bs []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Write(bs)
}

func (p *testPort) written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.String()
}

func newTestDevice(opts Options) (*Device, *fakeDisplay, *testPort) {
	out := &fakeDisplay{}
	port := &testPort{r: bytes.NewReader(nil)}
	return NewDevice(port, out, opts, nil), out, port
}

func TestDeviceScenarioLevelThenDate(t *testing.T) {
	dev, out, _ := newTestDevice(Options{})
	require.NoError(t, dev.Start())

	dev.Feed([]byte("1_D1109\n"), t0)

	c, d := out.current()
	assert.Equal(t, RGB{0, 255, 0}, c)
	assert.Equal(t, "0001", d.String())

	dev.Tick(t0.Add(1500 * time.Millisecond))

	_, d = out.current()
	assert.Equal(t, "1109", d.String())
	assert.Equal(t, []string{"    ", "0001", "1109"}, out.history())
	assert.Equal(t, State{Level: LevelNormal, Date: "1109"}, dev.State())
}

func TestDeviceScenarioOverlappingUpdates(t *testing.T) {
	dev, out, _ := newTestDevice(Options{})

	dev.Feed([]byte("3_D1225\n"), t0)
	dev.Tick(t0.Add(400 * time.Millisecond))
	dev.Feed([]byte("1_D0101\n"), t0.Add(400*time.Millisecond))
	dev.Tick(t0.Add(1600 * time.Millisecond))
	dev.Tick(t0.Add(1900 * time.Millisecond))

	assert.Equal(t, []string{"0003", "0001", "0101"}, out.history())
	c, _ := out.current()
	assert.Equal(t, Color(LevelNormal, DefaultMaxBrightness), c)
	assert.Equal(t, ShowingDate, dev.Phase())
}

func TestDeviceScenarioOff(t *testing.T) {
	dev, out, _ := newTestDevice(Options{})

	dev.Feed([]byte("2_D0704\n"), t0)
	dev.Feed([]byte("OFF\r\n"), t0.Add(time.Second))

	c, d := out.current()
	assert.Equal(t, Off, c)
	assert.Equal(t, Blank, d)
	assert.Equal(t, State{Level: LevelOff, Date: "0704"}, dev.State())
}

func TestDeviceScenarioGarbage(t *testing.T) {
	dev, out, port := newTestDevice(Options{})

	dev.Feed([]byte("2_D0704\n"), t0)
	dev.Tick(t0.Add(2 * time.Second))
	before := out.history()

	cmd := dev.HandleLine("garbage", t0.Add(3*time.Second))
	assert.Equal(t, Unrecognized, cmd.Kind)
	assert.Equal(t, "Unknown command: garbage\n", port.written())
	assert.Equal(t, before, out.history())
	assert.Equal(t, State{Level: LevelNotice, Date: "0704"}, dev.State())

	// Later input is unaffected.
	dev.Feed([]byte("3_\n"), t0.Add(4*time.Second))
	_, d := out.current()
	assert.Equal(t, "0003", d.String())
}

func TestDeviceShortDate(t *testing.T) {
	dev, out, _ := newTestDevice(Options{})

	dev.Feed([]byte("2_D0704\n1_D110\n"), t0)
	dev.Tick(t0.Add(2 * time.Second))

	assert.Equal(t, State{Level: LevelNormal, Date: "0704"}, dev.State())
	_, d := out.current()
	assert.Equal(t, "0704", d.String())
}

func TestDeviceSplitChunks(t *testing.T) {
	dev, out, _ := newTestDevice(Options{})

	for _, chunk := range []string{"2", "_D", "07", "04\r", "\n"} {
		dev.Feed([]byte(chunk), t0)
	}

	_, d := out.current()
	assert.Equal(t, "0002", d.String())
	assert.Equal(t, "0704", dev.State().Date)
}

func TestDeviceRunDrainsInputDuringDwell(t *testing.T) {
	pr, pw := io.Pipe()
	out := &fakeDisplay{}
	port := &testPort{r: pr}

	dev := NewDevice(port, out, Options{Dwell: 300 * time.Millisecond}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- dev.Run(ctx) }()

	_, err := pw.Write([]byte("3_D1225\n"))
	require.NoError(t, err)
	_, err = pw.Write([]byte("1_D0101\n"))
	require.NoError(t, err)

	// The second update is shown while the first dwell would still be running.
	require.Eventually(t, func() bool {
		_, d := out.current()
		return d.String() == "0001"
	}, 200*time.Millisecond, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		_, d := out.current()
		return d.String() == "0101"
	}, 2*time.Second, 10*time.Millisecond)

	_, err = pw.Write([]byte("nope\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return port.written() == "Unknown command: nope\n"
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, pw.Close())
	require.NoError(t, <-done)

	assert.Equal(t, State{Level: LevelNormal, Date: "0101"}, dev.State())
	assert.Equal(t, []string{"    ", "0003", "0001", "0101"}, out.history())
}

func TestDeviceRunStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	dev := NewDevice(&testPort{r: pr}, &fakeDisplay{}, Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- dev.Run(ctx) }()

	cancel()
	// Closing the port is what releases the blocked read.
	require.NoError(t, pr.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDeviceWarnsOnUnknownLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	dev := NewDevice(&testPort{r: bytes.NewReader(nil)}, &fakeDisplay{}, Options{}, zap.New(core).Sugar())

	dev.HandleLine("2_D1109", t0)
	assert.Zero(t, logs.FilterMessage("level has no colour; light off").Len())

	dev.HandleLine("7_D1109", t0)
	entries := logs.FilterMessage("level has no colour; light off").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 7, entries[0].ContextMap()["level"])
}
