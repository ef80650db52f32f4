package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go.tigermatt.uk/indicator"
	"go.tigermatt.uk/indicator/internal/monitor"
)

var (
	checkPort string
	dryRun    bool
	verbose   bool
)

func sendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send LEVEL [DEVICE]",
		Short: "Send a level with today's date (test mode)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  send,
	}
}

func checkCommand() *cobra.Command {
	cmd := cobra.Command{
		Use:   "check",
		Short: "Check SMART health on every configured host and report the worst level",
		Args:  cobra.ExactArgs(0),
		RunE:  check,
	}
	cmd.Flags().StringVar(&checkPort, "port", "", "Serial port (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the verdict without sending it")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the smartctl output of every device")

	return &cmd
}

func send(_ *cobra.Command, args []string) error {
	level, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("level must be an integer: %w", err)
	}

	name := cfg.Serial.Port
	if len(args) > 1 {
		name = args[1]
	}

	log.Infow("test mode", "level", level)
	return deliver(listenStop(), name, indicator.AlertLevel(level), time.Now())
}

func check(_ *cobra.Command, _ []string) error {
	ctx := listenStop()

	if len(cfg.Monitor.Hosts) == 0 {
		log.Warnw("no hosts configured; reporting level 0")
	}

	// The date is the day the run started, not the day it finished.
	date := time.Now()

	checker := &monitor.Checker{
		Exec: monitor.NewSSH(cfg.Monitor, log.SugaredLogger),
		Log:  log.SugaredLogger,
	}

	level, results, err := checker.Check(ctx, cfg.Monitor.Hosts)
	if err != nil {
		return err
	}

	printResults(os.Stdout, results, verbose)
	log.Infow("final level", "level", int(level))

	if dryRun {
		return nil
	}

	name := cfg.Serial.Port
	if checkPort != "" {
		name = checkPort
	}
	return deliver(ctx, name, level, date)
}

func printResults(w io.Writer, results []monitor.Result, verbose bool) {
	for _, r := range results {
		fmt.Fprintf(w, "%-16s %-16s level %d\n", r.Host, r.Device, int(r.Level))
		if !verbose {
			continue
		}
		if r.Err != nil {
			fmt.Fprintf(w, "  error: %v\n", r.Err)
		}
		for _, line := range strings.Split(strings.TrimRight(r.Output, "\n"), "\n") {
			if line != "" {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}

// deliver opens the port, gives the device time to come out of the reset the
// open triggers and sends a single frame.
func deliver(ctx context.Context, name string, level indicator.AlertLevel, t time.Time) error {
	port, err := openPort(name, cfg.Serial.Baud)
	if err != nil {
		return err
	}
	defer port.Close()

	if err := waitFor(ctx, cfg.Serial.BootWait()); err != nil {
		return err
	}

	if err := indicator.SendLevel(port, level, t); err != nil {
		return err
	}

	log.Infow("sent", "port", name, "frame", strings.TrimSpace(indicator.FormatLevelUpdate(level, t)))
	return nil
}
