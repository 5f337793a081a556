// Package cmd assembles the marvin CLI.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tphakala/marvin-go/cmd/devices"
	"github.com/tphakala/marvin-go/cmd/realtime"
	"github.com/tphakala/marvin-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marvin",
		Short: "Marvin wake word detector",
		Long:  "Always-listening wake word detector: captures microphone audio, scores it in real time and publishes wake events.",
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		realtime.Command(settings),
		devices.Command(),
	)

	return rootCmd
}

// setupFlags binds the global flags to viper keys so command line arguments
// take precedence over the config file.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.PersistentFlags().BoolVar(&settings.Debug, "debug", settings.Debug, "Enable debug output")
	cmd.PersistentFlags().StringVar(&settings.Audio.Device, "device", settings.Audio.Device, "Capture device name (substring match, empty for default)")
	cmd.PersistentFlags().Float64Var(&settings.Detection.Threshold, "threshold", settings.Detection.Threshold, "Detection threshold between 0.0 and 1.0")

	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("audio.device", cmd.PersistentFlags().Lookup("device"))
	_ = viper.BindPFlag("detection.threshold", cmd.PersistentFlags().Lookup("threshold"))
}
