package main

import (
	"fmt"

	"github.com/rebib/rebib/internal/config"
	"github.com/rebib/rebib/internal/convert"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved global configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

// ConfigResult is the JSON response of the config command.
type ConfigResult struct {
	Path             string   `json:"path"`
	MaxInputBytes    int      `json:"max_input_bytes"`
	VenueCues        []string `json:"venue_cues,omitempty"`
	DefaultOutputDir string   `json:"default_output_dir,omitempty"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	maxBytes := cfg.MaxInputBytes
	if maxBytes == 0 {
		maxBytes = convert.DefaultMaxInputBytes
	}

	if humanOutput {
		fmt.Printf("config file:        %s\n", config.Path())
		fmt.Printf("max_input_bytes:    %d\n", maxBytes)
		if len(cfg.VenueCues) > 0 {
			fmt.Printf("venue_cues:         %v\n", cfg.VenueCues)
		}
		if cfg.DefaultOutputDir != "" {
			fmt.Printf("default_output_dir: %s\n", cfg.DefaultOutputDir)
		}
	} else {
		outputJSON(ConfigResult{
			Path:             config.Path(),
			MaxInputBytes:    maxBytes,
			VenueCues:        cfg.VenueCues,
			DefaultOutputDir: cfg.DefaultOutputDir,
		})
	}
	return nil
}
