package main

import (
	"time"

	"github.com/spf13/cobra"

	"go.tigermatt.uk/indicator"
	"go.tigermatt.uk/indicator/internal/driver"
)

var (
	dwell         time.Duration
	maxBrightness uint8
)

func runCommand() *cobra.Command {
	cmd := cobra.Command{
		Use:   "run [DEVICE]",
		Short: "Run the indicator against a serial port",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	cmd.Flags().DurationVar(&dwell, "dwell", 0, "How long a level stays on the display (overrides config)")
	cmd.Flags().Uint8Var(&maxBrightness, "max-brightness", 0, "Light brightness cap (overrides config)")

	return &cmd
}

func run(_ *cobra.Command, args []string) error {
	ctx := listenStop()

	name := cfg.Serial.Port
	if len(args) > 0 {
		name = args[0]
	}

	port, err := openPort(name, cfg.Serial.Baud)
	if err != nil {
		return err
	}
	defer port.Close()
	closeOnDone(ctx, port)

	opts := indicator.Options{
		Dwell:         cfg.Display.Dwell(),
		MaxBrightness: uint8(cfg.Display.MaxBrightness),
		MaxLine:       cfg.Display.MaxLine,
	}
	if dwell > 0 {
		opts.Dwell = dwell
	}
	if maxBrightness > 0 {
		opts.MaxBrightness = maxBrightness
	}

	dev := indicator.NewDevice(port, driver.NewLog(log.SugaredLogger), opts, log.SugaredLogger)

	log.Infow("indicator running", "port", name, "baud", cfg.Serial.Baud, "dwell", opts.Dwell)
	defer log.Infow("indicator stopped")

	return dev.Run(ctx)
}
