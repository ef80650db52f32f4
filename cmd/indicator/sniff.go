package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"go.tigermatt.uk/indicator"
)

var (
	dumpAllReads = false
	outFile      = ""
)

func sniffCommand() *cobra.Command {
	cmd := cobra.Command{
		Use:   "sniff DEVICE",
		Short: "Record raw serial input for later replay with dump",
		Args:  cobra.ExactArgs(1),
		RunE:  sniff,
	}
	cmd.Flags().BoolVar(&dumpAllReads, "dump-reads", dumpAllReads, "Dump all read operations")
	cmd.Flags().StringVarP(&outFile, "out", "o", outFile, "Recording file (default <unix time>.dat)")

	return &cmd
}

func outFilename() string {
	return fmt.Sprintf("%d.dat", time.Now().UTC().Unix())
}

func sniff(_ *cobra.Command, args []string) error {
	ctx := listenStop()

	port, err := openPort(args[0], cfg.Serial.Baud)
	if err != nil {
		return err
	}
	defer port.Close()
	closeOnDone(ctx, port)

	name := outFile
	if name == "" {
		name = outFilename()
	}

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating recording: %w", err)
	}
	defer f.Close()

	rec := &indicator.Recorder{Dest: f}

	var recErr error
	s := &indicator.Sniffer{
		Port: port,
		OnReceive: func(bs []byte) {
			if dumpAllReads {
				fmt.Printf("%s % 02X\n", time.Now().Format("15:04:05.000"), bs)
			}

			if recErr != nil {
				return
			}
			if err := rec.Record(bs); err != nil {
				recErr = fmt.Errorf("writing recording: %w", err)
				log.Errorw("recording failed", "file", name, "err", err)
			}
		},
	}

	log.Infow("recording", "port", args[0], "file", name)

	if err := s.Consume(ctx); err != nil {
		return err
	}

	return recErr
}
