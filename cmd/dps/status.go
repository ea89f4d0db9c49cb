// cmd/dps/status.go
package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zsellera/dps-wifi/internal/dps"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Read and print the power supply status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDevice(cmd.Context(), func(ctx context.Context, d *dps.Driver) error {
				st, err := d.ReadStatus(ctx)
				if err != nil {
					return err
				}
				return printStatus(cmd.OutOrStdout(), st)
			})
		},
	}
}

func printStatus(w io.Writer, st dps.Status) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "output\t%s\n", onOff(st.Output))
	fmt.Fprintf(tw, "mode\t%s\n", st.Mode)
	fmt.Fprintf(tw, "protection\t%s\n", st.Protection)
	fmt.Fprintf(tw, "set\t%s V\t%s A\n", dps.Volts(st.VoltageSet).StringFixed(2), dps.Amps(st.CurrentSet).StringFixed(3))
	fmt.Fprintf(tw, "out\t%s V\t%s A\t%s W\n",
		dps.Volts(st.VoltageOut).StringFixed(2),
		dps.Amps(st.CurrentOut).StringFixed(3),
		dps.Watts(st.Power).StringFixed(2),
	)
	fmt.Fprintf(tw, "input\t%s V\n", dps.Volts(st.VoltageIn).StringFixed(2))
	fmt.Fprintf(tw, "locked\t%t\n", st.Locked)
	return tw.Flush()
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
