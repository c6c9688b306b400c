package pto

import (
	"context"
	"errors"
	"fmt"

	"github.com/s0up4200/ptoctl/rippling"
)

// Endpoint paths, relative to the API base URL.
const (
	HolidayCalendarPath = "pto/api/get_holiday_calendar/"
	LeaveRequestsPath   = "pto/api/leave_requests/"
)

// ErrNoRole indicates the session has no acting role set
var ErrNoRole = errors.New("session has no role: set the tenant first")

// HolidayCalendar fetches the holiday calendar grouped by year.
func HolidayCalendar(ctx context.Context, s *rippling.Session) ([]HolidaysOfYear, error) {
	resp, err := s.Post(HolidayCalendarPath).
		SendJSON(ctx, HolidayCalendarQuery{AllowTimeAdmin: false, OnlyPayable: false})
	if err != nil {
		return nil, fmt.Errorf("failed to get holiday calendar: %w", err)
	}

	calendar, err := rippling.ParseJSON[[]HolidaysOfYear](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get holiday calendar: %w", err)
	}
	return calendar, nil
}

// LeaveRequests fetches the leave requests of the session's role.
func LeaveRequests(ctx context.Context, s *rippling.Session) ([]LeaveRequest, error) {
	role, ok := s.Role()
	if !ok {
		return nil, ErrNoRole
	}

	resp, err := s.Get(LeaveRequestsPath).
		WithParam("role", role).
		Send(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave requests: %w", err)
	}

	requests, err := rippling.ParseJSON[[]LeaveRequest](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave requests: %w", err)
	}
	return requests, nil
}
