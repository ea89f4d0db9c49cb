// cmd/dps/schedule.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zsellera/dps-wifi/internal/automation"
	"github.com/zsellera/dps-wifi/internal/config"
	"github.com/zsellera/dps-wifi/internal/dps"
)

var errOffline = errors.New("dps: schedule editing does not talk to the device")

// offline satisfies automation.Device for table editing. A scheduler that
// is never ticked never reaches it.
type offline struct{}

func (offline) SetOutput(context.Context, bool) error                      { return errOffline }
func (offline) SetVoltageAndCurrent(context.Context, uint16, uint16) error { return errOffline }

func newScheduleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Inspect and edit the automation schedule",
	}

	var (
		cronExpr string
		output   string
		voltage  string
		current  string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: `Append an entry, e.g. add --cron "30 8 * * *" --voltage 12 --current 0.5`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entry, err := buildEntry(cronExpr, output, voltage, current)
			if err != nil {
				return err
			}
			return a.editSchedule(func(s *automation.Scheduler) error {
				if err := s.AddEntry(entry); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added entry %d\n", len(s.Entries())-1)
				return nil
			})
		},
	}
	add.Flags().StringVar(&cronExpr, "cron", "", "five-field cron expression; only * and single values")
	add.Flags().StringVar(&output, "output", "", "switch the output on or off")
	add.Flags().StringVar(&voltage, "voltage", "", "voltage setpoint in volts; the output is switched on")
	add.Flags().StringVar(&current, "current", "", "current limit in amperes; requires --voltage")
	_ = add.MarkFlagRequired("cron")
	add.MarkFlagsMutuallyExclusive("output", "voltage")
	add.MarkFlagsRequiredTogether("voltage", "current")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print the schedule in evaluation order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := a.openSchedule()
				if err != nil {
					return err
				}
				return printSchedule(cmd.OutOrStdout(), a.cfg.Automation.Enabled, s.Entries())
			},
		},
		add,
		&cobra.Command{
			Use:   "remove <index>",
			Short: "Delete the entry at index",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				i, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("index %q: %w", args[0], err)
				}
				return a.editSchedule(func(s *automation.Scheduler) error {
					if !s.RemoveEntry(i) {
						return fmt.Errorf("no entry %d (schedule has %d)", i, len(s.Entries()))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "enable",
			Short: "Turn automation on",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.setAutomation(true)
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Turn automation off",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.setAutomation(false)
			},
		},
	)
	return cmd
}

func (a *app) openSchedule() (*automation.Scheduler, error) {
	s, err := automation.New(offline{}, automation.Options{Logger: &a.log})
	if err != nil {
		return nil, err
	}
	err = s.LoadFile(a.schedulePath())
	switch {
	case errors.Is(err, automation.ErrTruncatedRecord):
		a.log.Warn().Err(err).Msg("schedule file truncated, partial record dropped")
	case err != nil:
		return nil, err
	}
	return s, nil
}

func (a *app) editSchedule(edit func(*automation.Scheduler) error) error {
	s, err := a.openSchedule()
	if err != nil {
		return err
	}
	if err := edit(s); err != nil {
		return err
	}
	return s.StoreFile(a.schedulePath())
}

// setAutomation persists the enabled flag in the configuration file.
func (a *app) setAutomation(enabled bool) error {
	a.cfg.Automation.Enabled = enabled
	return config.Save(a.cfgPath, a.cfg)
}

func buildEntry(cronExpr, output, voltage, current string) (automation.Entry, error) {
	cd, err := automation.ParseCron(cronExpr)
	if err != nil {
		return automation.Entry{}, err
	}

	switch {
	case output != "":
		on, err := parseOnOff(output)
		if err != nil {
			return automation.Entry{}, err
		}
		return automation.Entry{Cron: cd, Action: automation.OnOff{On: on}}, nil

	case voltage != "":
		v, err := parseVoltage(voltage)
		if err != nil {
			return automation.Entry{}, err
		}
		c, err := parseCurrent(current)
		if err != nil {
			return automation.Entry{}, err
		}
		return automation.Entry{Cron: cd, Action: automation.Limits{Voltage: v, Current: c}}, nil

	default:
		return automation.Entry{}, errors.New("one of --output or --voltage/--current is required")
	}
}

func printSchedule(w io.Writer, enabled bool, entries []automation.Entry) error {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(w, "automation %s, %d entries\n", state, len(entries))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, automation.FormatCron(e.Cron), describe(e.Action))
	}
	return tw.Flush()
}

func describe(act automation.Action) string {
	switch v := act.(type) {
	case automation.OnOff:
		return "output " + onOff(v.On)
	case automation.Limits:
		return fmt.Sprintf("limits %s V %s A, output on",
			dps.Volts(v.Voltage).StringFixed(2),
			dps.Amps(v.Current).StringFixed(3),
		)
	case automation.Unknown:
		return fmt.Sprintf("unknown step %d, never fires", uint32(v.Tag))
	default:
		return "unknown"
	}
}
