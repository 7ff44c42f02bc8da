package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"piloop/config"
	"piloop/link"
	"piloop/midi"
	"piloop/theme"
	"piloop/tui"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Play the panel from the keyboard against a simulated board",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		palette, err := theme.LoadOrDefault(cfg.Palette)
		if err != nil {
			return err
		}
		m, err := tui.NewModel(cfg, theme.New(palette))
		if err != nil {
			return err
		}
		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial and MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("=== Serial ===")
		for _, name := range link.Candidates() {
			fmt.Println("  " + name)
		}

		fmt.Println("=== MIDI ===")
		fmt.Printf("(waiting up to %v...)\n", midi.DefaultScanTimeout)
		p, err := midi.ListPorts(midi.DefaultScanTimeout)
		if err != nil {
			return err
		}
		for i, name := range p.In {
			fmt.Printf("  in  %d: %s\n", i, name)
		}
		for i, name := range p.Out {
			mark := ""
			if midi.IsLaunchpad(name) {
				mark = "  <- launchpad"
			}
			fmt.Printf("  out %d: %s%s\n", i, name, mark)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flags.config
		if path == "" {
			var err error
			if path, err = config.ConfigPath(); err != nil {
				return err
			}
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return errors.Errorf("%s exists (use --force)", path)
		}
		if err := config.DefaultConfig().SaveFile(path); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
