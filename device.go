package indicator

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tunes a Device. Zero values fall back to the defaults.
type Options struct {
	Dwell         time.Duration
	MaxBrightness uint8
	MaxLine       int

	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// Device is the indicator firmware loop: it owns the state, reads frames from
// Port, drives Display and writes diagnostics back to Port.
type Device struct {
	port  io.ReadWriter
	sched *Scheduler
	log   *zap.SugaredLogger
	now   func() time.Time

	state State
	lines LineAssembler
}

func NewDevice(port io.ReadWriter, out Display, opts Options, log *zap.SugaredLogger) *Device {
	if opts.MaxBrightness == 0 {
		opts.MaxBrightness = DefaultMaxBrightness
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Device{
		port:  port,
		sched: NewScheduler(out, opts.Dwell, opts.MaxBrightness),
		log:   log,
		now:   opts.Now,
		state: NewState(),
		lines: LineAssembler{Max: opts.MaxLine},
	}
}

// State returns a copy of the current state.
func (d *Device) State() State {
	return d.state
}

// Phase returns the display phase.
func (d *Device) Phase() Phase {
	return d.sched.Phase()
}

// Deadline returns when the level on the display gives way to the date.
func (d *Device) Deadline() (time.Time, bool) {
	return d.sched.Deadline()
}

// Start blanks the outputs.
func (d *Device) Start() error {
	return d.sched.Start()
}

// Feed pushes received bytes through the line assembler and handles every
// line they complete.
func (d *Device) Feed(bs []byte, now time.Time) {
	for _, b := range bs {
		dropped := d.lines.Dropped()

		line, ok := d.lines.Feed(b)
		if d.lines.Dropped() != dropped {
			d.log.Warnw("discarding over-long line", "max", d.lines.limit())
		}
		if ok {
			d.HandleLine(line, now)
		}
	}
}

// HandleLine parses one line and applies it.
func (d *Device) HandleLine(line string, now time.Time) Command {
	cmd := Parse(line)

	if cmd.Kind == Unrecognized {
		d.log.Infow("unrecognized command", "line", line)
		if _, err := fmt.Fprintf(d.port, "Unknown command: %s\n", line); err != nil {
			d.log.Warnw("diagnostic write failed", "err", err)
		}
		return cmd
	}

	if d.state.Apply(cmd) {
		d.log.Debugw("date updated", "date", d.state.Date)
	} else if cmd.HasDate {
		d.log.Debugw("ignoring date", "date", cmd.Date, "kept", d.state.Date)
	}

	d.log.Infow("command", "cmd", cmd, "level", int(d.state.Level), "date", d.state.Date)
	if cmd.Kind == LevelUpdate && !d.state.Level.Known() {
		d.log.Warnw("level has no colour; light off", "level", int(d.state.Level))
	}

	if err := d.sched.Dispatch(cmd, &d.state, now); err != nil {
		d.log.Warnw("display update failed", "err", err)
	}
	return cmd
}

// Tick lets the scheduler expire a transient level.
func (d *Device) Tick(now time.Time) {
	changed, err := d.sched.Service(&d.state, now)
	if err != nil {
		d.log.Warnw("display update failed", "err", err)
	}
	if changed {
		d.log.Debugw("showing date", "date", d.state.Date)
	}
}

// Run blanks the outputs and processes input until ctx is done or the port
// fails. Input keeps draining while a level is on the display. A read blocked
// in the port only returns once the port is closed or hits EOF.
func (d *Device) Run(ctx context.Context) error {
	if err := d.Start(); err != nil {
		d.log.Warnw("display init failed", "err", err)
	}

	chunks := make(chan []byte, 64)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(chunks)

		s := &Sniffer{
			Port: d.port,
			OnReceive: func(bs []byte) {
				select {
				case chunks <- bs:
				case <-ctx.Done():
				}
			},
		}
		return s.Consume(ctx)
	})
	g.Go(func() error {
		return d.loop(ctx, chunks)
	})

	return g.Wait()
}

func (d *Device) loop(ctx context.Context, chunks <-chan []byte) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		var wake <-chan time.Time
		if deadline, ok := d.sched.Deadline(); ok {
			timer.Reset(deadline.Sub(d.now()))
			wake = timer.C
		} else {
			timer.Stop()
		}

		select {
		case <-ctx.Done():
			return nil
		case bs, ok := <-chunks:
			if !ok {
				return nil
			}
			now := d.now()
			d.Tick(now)
			d.Feed(bs, now)
		case <-wake:
			d.Tick(d.now())
		}
	}
}
