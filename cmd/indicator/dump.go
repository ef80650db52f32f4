package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go.tigermatt.uk/indicator"
	"go.tigermatt.uk/indicator/internal/driver"
)

var dumpRaw = false

func dumpCommand() *cobra.Command {
	cmd := cobra.Command{
		Use:   "dump FILE",
		Short: "Replay a recording and print what the indicator would show",
		Args:  cobra.ExactArgs(1),
		RunE:  dump,
	}
	cmd.Flags().BoolVar(&dumpRaw, "raw", dumpRaw, "Print the raw chunks instead of replaying them")

	return &cmd
}

func dump(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	defer f.Close()

	chunks := make(chan indicator.Chunk, 100)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		if dumpRaw {
			return printChunks(os.Stdout, chunks)
		}
		return replay(os.Stdout, chunks)
	})
	g.Go(func() error { return indicator.ReadIn(ctx, chunks, f) })

	return g.Wait()
}

func printChunks(w io.Writer, chunks <-chan indicator.Chunk) error {
	for c := range chunks {
		if _, err := fmt.Fprintf(w, "%s: % 02X %s\n", c.Timestamp.Format("15:04:05.000"), c.Data, render(c.Data)); err != nil {
			return err
		}
	}

	return nil
}

func render(bs []byte) string {
	return fmt.Sprintf("%q", bs)
}

// replay runs the recording through a device on the recorded clock.
func replay(w io.Writer, chunks <-chan indicator.Chunk) error {
	var clock time.Time
	now := func() time.Time { return clock }

	tl := &driver.Timeline{W: w, Clock: now}
	port := &replayPort{timeline: tl}

	dev := indicator.NewDevice(port, tl, indicator.Options{
		Dwell:         cfg.Display.Dwell(),
		MaxBrightness: uint8(cfg.Display.MaxBrightness),
		MaxLine:       cfg.Display.MaxLine,
		Now:           now,
	}, log.SugaredLogger)

	started := false
	for c := range chunks {
		if !started {
			clock = c.Timestamp
			if err := dev.Start(); err != nil {
				return err
			}
			started = true
		}

		// Expire a level whose dwell ran out before this chunk arrived.
		if deadline, ok := dev.Deadline(); ok && !c.Timestamp.Before(deadline) {
			clock = deadline
			dev.Tick(deadline)
		}

		clock = c.Timestamp
		dev.Feed(c.Data, c.Timestamp)
	}

	if deadline, ok := dev.Deadline(); ok {
		clock = deadline
		dev.Tick(deadline)
	}

	return nil
}

// replayPort prints what the device writes back; there is nothing to read.
type replayPort struct {
	timeline *driver.Timeline
}

func (p *replayPort) Read([]byte) (int, error) {
	return 0, io.EOF
}

func (p *replayPort) Write(bs []byte) (int, error) {
	line := strings.TrimRight(string(bs), "\r\n")
	if _, err := fmt.Fprintf(p.timeline.W, "%s: serial  %s\n", p.timeline.Clock().Format("15:04:05.000"), line); err != nil {
		return 0, err
	}
	return len(bs), nil
}
