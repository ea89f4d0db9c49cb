// cmd/dps/set.go
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zsellera/dps-wifi/internal/dps"
)

func newSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Write setpoints or switch the output",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "voltage <volts>",
			Short: "Set the output voltage, e.g. 12.5",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := parseVoltage(args[0])
				if err != nil {
					return err
				}
				return a.withDevice(cmd.Context(), func(ctx context.Context, d *dps.Driver) error {
					return d.SetVoltage(ctx, v)
				})
			},
		},
		&cobra.Command{
			Use:   "current <amps>",
			Short: "Set the current limit, e.g. 0.5",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := parseCurrent(args[0])
				if err != nil {
					return err
				}
				return a.withDevice(cmd.Context(), func(ctx context.Context, d *dps.Driver) error {
					return d.SetCurrent(ctx, c)
				})
			},
		},
		&cobra.Command{
			Use:   "limits <volts> <amps>",
			Short: "Set voltage and current limit in one transaction",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := parseVoltage(args[0])
				if err != nil {
					return err
				}
				c, err := parseCurrent(args[1])
				if err != nil {
					return err
				}
				return a.withDevice(cmd.Context(), func(ctx context.Context, d *dps.Driver) error {
					return d.SetVoltageAndCurrent(ctx, v, c)
				})
			},
		},
		&cobra.Command{
			Use:       "output on|off",
			Short:     "Switch the output stage",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"on", "off"},
			RunE: func(cmd *cobra.Command, args []string) error {
				on, err := parseOnOff(args[0])
				if err != nil {
					return err
				}
				return a.withDevice(cmd.Context(), func(ctx context.Context, d *dps.Driver) error {
					return d.SetOutput(ctx, on)
				})
			},
		},
	)
	return cmd
}

func parseVoltage(s string) (uint16, error) {
	v, err := dps.ParseVolts(s)
	if err != nil {
		return 0, err
	}
	return v, dps.CheckVoltage(v)
}

func parseCurrent(s string) (uint16, error) {
	c, err := dps.ParseAmps(s)
	if err != nil {
		return 0, err
	}
	return c, dps.CheckCurrent(c)
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}
