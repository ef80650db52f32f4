// Command indicator runs the storage alert indicator and the host-side tools
// that feed it.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"go.tigermatt.uk/indicator/internal/config"
	"go.tigermatt.uk/indicator/internal/logger"
)

var (
	configPath = "indicator.yaml"
	logLevel   = ""

	cfg *config.Config
	log *logger.Logger
)

func main() {
	cmd := &cobra.Command{
		Use:               "indicator",
		Args:              cobra.ExactArgs(0),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", configPath, "YAML config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "debug, info, warn or error")

	cmd.AddCommand(runCommand())
	cmd.AddCommand(sniffCommand())
	cmd.AddCommand(dumpCommand())
	cmd.AddCommand(sendCommand())
	cmd.AddCommand(checkCommand())
	cmd.AddCommand(&cobra.Command{
		Use:  "ports",
		Args: cobra.ExactArgs(0),
		RunE: ports,
	})

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config. The default file may be absent; one named with
// --config may not.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	config.Normalize(cfg)
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	log = logger.Get(cfg.Log.Level)
	return nil
}
