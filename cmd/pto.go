package cmd

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/s0up4200/ptoctl/filter"
	"github.com/s0up4200/ptoctl/pto"
)

var (
	holidayYear   int
	holidayFilter string

	leaveFilter    string
	leavePreset    string
	leaveSince     string
	leaveUntil     string
	includeDeleted bool
	listPresets    bool
)

// holidaysCmd lists the holiday calendar of one year
var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "List the company holidays of a year",
	Long: `List the company holidays of a year, optionally filtered.

Available fields: Name, Type, StartDate, EndDate, Days, Overtime.

Examples:
  ptoctl holidays --year 2023
  ptoctl holidays --filter 'Days > 1 or like(Name, "christmas")'`,
	RunE: runHolidays,
}

// leaveCmd lists the leave requests of the acting role
var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "List leave requests of the acting role",
	Long: `List leave requests of the role set with 'ptoctl tenant'.

Available fields: Status, LeaveType, StartDate, EndDate, Days, Deleted.
Without --filter or --preset the configured filter.default_expression applies.

Examples:
  ptoctl leave --filter 'Status == "APPROVED"'
  ptoctl leave --since 2022-06-01 --until "June 30, 2022"
  ptoctl leave --preset long`,
	RunE: runLeave,
}

func init() {
	holidaysCmd.Flags().IntVarP(&holidayYear, "year", "y", 0, "calendar year (default is the current year)")
	holidaysCmd.Flags().StringVarP(&holidayFilter, "filter", "f", "", "filter expression")

	leaveCmd.Flags().StringVarP(&leaveFilter, "filter", "f", "", "filter expression")
	leaveCmd.Flags().StringVarP(&leavePreset, "preset", "p", "", "use a preset filter from config")
	leaveCmd.Flags().StringVar(&leaveSince, "since", "", "only requests ending on or after this date")
	leaveCmd.Flags().StringVar(&leaveUntil, "until", "", "only requests starting on or before this date")
	leaveCmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "include deleted requests")
	leaveCmd.Flags().BoolVar(&listPresets, "list-presets", false, "list configured presets and exit")
	leaveCmd.MarkFlagsMutuallyExclusive("filter", "preset")

	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(leaveCmd)
}

func runHolidays(cmd *cobra.Command, args []string) error {
	year := holidayYear
	if year == 0 {
		year = time.Now().Year()
	}

	var f filter.CompiledFilter
	if holidayFilter != "" {
		var err error
		f, err = filter.NewExprCompiler().Compile(holidayFilter)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	session, err := restoreSession()
	if err != nil {
		return err
	}

	calendar, err := pto.HolidayCalendar(cmd.Context(), session)
	if err != nil {
		return err
	}

	var holidays []pto.Holiday
	if group, ok := pto.FindYear(calendar, year); ok {
		holidays, err = filter.Holidays(f, group.Holidays)
		if err != nil {
			return err
		}
	}

	logger.Debug().Int("year", year).Int("count", len(holidays)).Msg("Holidays fetched")
	fmt.Fprint(cmd.OutOrStdout(), pto.NewConsoleFormatter().FormatHolidays(year, holidays))
	return nil
}

func runLeave(cmd *cobra.Command, args []string) error {
	manager, err := newFilterManager()
	if err != nil {
		return err
	}

	if listPresets {
		printPresets(cmd, manager)
		return nil
	}

	f, err := resolveLeaveFilter(manager)
	if err != nil {
		return err
	}

	since, err := parseDateFlag("since", leaveSince)
	if err != nil {
		return err
	}
	until, err := parseDateFlag("until", leaveUntil)
	if err != nil {
		return err
	}

	session, err := restoreSession()
	if err != nil {
		return err
	}

	requests, err := pto.LeaveRequests(cmd.Context(), session)
	if err != nil {
		return err
	}

	requests, err = filter.Leaves(f, selectLeave(requests, since, until, includeDeleted))
	if err != nil {
		return err
	}

	logger.Debug().Int("count", len(requests)).Msg("Leave requests fetched")
	fmt.Fprint(cmd.OutOrStdout(), pto.NewConsoleFormatter().FormatLeaveRequests(requests))
	return nil
}

// newFilterManager registers the presets from config
func newFilterManager() (*filter.Manager, error) {
	manager := filter.NewManager()

	presets := make(map[string]filter.Preset, len(cfg.Filter.Presets))
	for name, p := range cfg.Filter.Presets {
		presets[name] = filter.Preset{Expression: p.Expression, Description: p.Description}
	}
	if err := manager.RegisterPresets(presets); err != nil {
		return nil, err
	}

	return manager, nil
}

// resolveLeaveFilter picks the filter by priority: command line filter > preset > default.
// A nil filter keeps every request.
func resolveLeaveFilter(manager *filter.Manager) (filter.CompiledFilter, error) {
	switch {
	case leaveFilter != "":
		f, err := manager.Compile(leaveFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return f, nil
	case leavePreset != "":
		return manager.Preset(leavePreset)
	case cfg.Filter.DefaultExpression != "":
		f, err := manager.Compile(cfg.Filter.DefaultExpression)
		if err != nil {
			return nil, fmt.Errorf("invalid filter.default_expression: %w", err)
		}
		return f, nil
	}
	return nil, nil
}

func printPresets(cmd *cobra.Command, manager *filter.Manager) {
	out := cmd.OutOrStdout()
	names := manager.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, "No presets configured")
		return
	}
	for _, name := range names {
		fmt.Fprintf(out, "• %s", name)
		if d := manager.Description(name); d != "" {
			fmt.Fprintf(out, ": %s", d)
		}
		fmt.Fprintln(out)
	}
}

// parseDateFlag accepts any date layout dateparse understands
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseLocal(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q: %w", name, value, err)
	}
	return pto.NewDate(t.Year(), t.Month(), t.Day()).Time, nil
}

// selectLeave applies the date window and drops deleted requests unless asked for
func selectLeave(requests []pto.LeaveRequest, since, until time.Time, withDeleted bool) []pto.LeaveRequest {
	selected := make([]pto.LeaveRequest, 0, len(requests))
	for _, r := range requests {
		if r.Deleted() && !withDeleted {
			continue
		}
		if !since.IsZero() && r.EndDate.Before(since) {
			continue
		}
		if !until.IsZero() && r.StartDate.After(until) {
			continue
		}
		selected = append(selected, r)
	}
	return selected
}
