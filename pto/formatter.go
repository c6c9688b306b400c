package pto

import (
	"fmt"
	"strings"
)

// ConsoleFormatter renders PTO data as trees for terminal output
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatHolidays formats the holidays of one year
func (f *ConsoleFormatter) FormatHolidays(year int, holidays []Holiday) string {
	if len(holidays) == 0 {
		return fmt.Sprintf("No holidays found for %d\n", year)
	}

	var sb strings.Builder

	sb.WriteString("\nHoliday")
	if len(holidays) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " in %d (%d):\n\n", year, len(holidays))

	for i, h := range holidays {
		prefix := "├"
		if i == len(holidays)-1 {
			prefix = "╰"
		}

		fmt.Fprintf(&sb, "%s── %s  %s", prefix, h.StartDate, h.Name)
		if days := h.Days(); days > 1 {
			fmt.Fprintf(&sb, " (%d days, until %s)", days, h.EndDate)
		}
		if h.CountAsOvertime {
			sb.WriteString(" [overtime]")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatLeaveRequests formats leave requests for console display
func (f *ConsoleFormatter) FormatLeaveRequests(requests []LeaveRequest) string {
	if len(requests) == 0 {
		return "No leave requests found\n"
	}

	var sb strings.Builder
	var totalDays int

	sb.WriteString("\nLeave request")
	if len(requests) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(requests))

	for i, r := range requests {
		isLast := i == len(requests)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		fmt.Fprintf(&sb, "%s── %s → %s  %s\n", prefix, r.StartDate, r.EndDate, r.LeaveTypeName)

		status := r.Status
		if r.Deleted() {
			status += " (deleted)"
		}
		fmt.Fprintf(&sb, "%sStatus: %s | Days: %d\n", indent, status, r.Days())

		if !r.Deleted() {
			totalDays += r.Days()
		}
	}

	fmt.Fprintf(&sb, "\nTotal: %d day", totalDays)
	if totalDays != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n")
	return sb.String()
}
