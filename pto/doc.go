// Package pto implements the Rippling PTO endpoints on top of a rippling.Session.
//
// # Usage
//
//	calendar, err := pto.HolidayCalendar(ctx, session)
//	if err != nil {
//		return err
//	}
//	if year, ok := pto.FindYear(calendar, 2023); ok {
//		fmt.Print(pto.NewConsoleFormatter().FormatHolidays(year.Year, year.Holidays))
//	}
//
// LeaveRequests needs a session with a role set and returns ErrNoRole
// otherwise.
package pto
