package pto

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar date encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate returns the date for year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// String returns the date as "YYYY-MM-DD"
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// daysBetween counts calendar days from start to end inclusive.
func daysBetween(start, end Date) int {
	if end.Before(start.Time) {
		return 0
	}
	return int(end.Sub(start.Time).Hours()/24) + 1
}

// HolidaysOfYear groups the holidays of one calendar year.
type HolidaysOfYear struct {
	Year     int       `json:"year"`
	Holidays []Holiday `json:"holidays"`
}

// Holiday is one entry of the company holiday calendar.
type Holiday struct {
	Name            string `json:"name"`
	Kind            string `json:"type"`
	StartDate       Date   `json:"startDate"`
	EndDate         Date   `json:"endDate"`
	CountAsOvertime bool   `json:"shouldCountTowardHoursWorkedForOvertime"`
}

// Days returns the number of calendar days the holiday spans
func (h *Holiday) Days() int {
	return daysBetween(h.StartDate, h.EndDate)
}

// LeaveRequest is one time-off request of the acting role.
type LeaveRequest struct {
	IsDeleted     *bool  `json:"isDeleted"`
	StartDate     Date   `json:"startDate"`
	EndDate       Date   `json:"endDate"`
	Status        string `json:"status"`
	LeaveTypeName string `json:"leaveTypeName"`
}

// Deleted reports whether the request was deleted. A missing flag counts as
// not deleted.
func (l *LeaveRequest) Deleted() bool {
	return l.IsDeleted != nil && *l.IsDeleted
}

// Days returns the number of calendar days the request spans
func (l *LeaveRequest) Days() int {
	return daysBetween(l.StartDate, l.EndDate)
}

// HolidayCalendarQuery is the body sent to the holiday calendar endpoint.
type HolidayCalendarQuery struct {
	AllowTimeAdmin bool `json:"allow_time_admin"`
	OnlyPayable    bool `json:"only_payable"`
}

// FindYear returns the group for year, if present.
func FindYear(calendar []HolidaysOfYear, year int) (HolidaysOfYear, bool) {
	for _, group := range calendar {
		if group.Year == year {
			return group, true
		}
	}
	return HolidaysOfYear{}, false
}
