package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"piloop/config"
	"piloop/debug"
)

var flags struct {
	config string
	debug  bool
}

var rootCmd = &cobra.Command{
	Use:   "piloop",
	Short: "Looper pedal controller",
	Long: `piloop scans the loop and drum keypads, the menu encoder and the volume
faders of a looper panel, and talks to the audio host over a serial or MIDI link.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !flags.debug {
			return nil
		}
		// the simulator owns the terminal
		if cmd == simCmd {
			return debug.Enable()
		}
		debug.EnableWriter(os.Stderr)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Disable()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "",
		"config file (default ~/.config/piloop/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false,
		"debug logging (stderr, or "+debug.LogPath()+" for sim)")

	rootCmd.AddCommand(runCmd, simCmd, portsCmd, configCmd)
}

// loadConfig reads --config, or the default file when unset
func loadConfig() (*config.Config, error) {
	if flags.config != "" {
		return config.LoadFile(flags.config)
	}
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
