package main

import (
	"github.com/spf13/cobra"

	"github.com/cameronsima/powertrainx/logging"
)

var configFile string
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "powertrainx",
	Short: "FPV fixed-wing powertrain design-space explorer",
	Long: `powertrainx enumerates motor, propeller, battery-pack, and thermal-
environment combinations for a fixed-wing FPV airframe, solves the
level-flight operating point for each, and ranks the survivors by
efficiency, runtime, or achievable airspeed.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetLevel(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "batch configuration file (TOML/YAML/JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
}
