// cmd/dps/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zsellera/dps-wifi/internal/config"
	"github.com/zsellera/dps-wifi/internal/logging"
)

const defaultConfigPath = "dps.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by every subcommand.
type app struct {
	cfgPath string
	cfg     *config.Config
	log     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "dps",
		Short:         "Control and automate a DPS programmable power supply over Modbus RTU",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", defaultConfigPath, "path to the YAML configuration")

	root.AddCommand(
		newRunCmd(a),
		newStatusCmd(a),
		newSetCmd(a),
		newScheduleCmd(a),
	)
	return root
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	log, err := logging.New(logOut, cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// schedulePath resolves a relative schedule file against the config
// file's directory.
func (a *app) schedulePath() string {
	p := a.cfg.Automation.ScheduleFile
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(a.cfgPath), p)
}
