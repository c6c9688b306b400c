package filter

import (
	"github.com/s0up4200/ptoctl/pto"
)

// Leaves returns the leave requests matching f, or all of them when f is nil.
// The first evaluation error stops the scan.
func Leaves(f CompiledFilter, requests []pto.LeaveRequest) ([]pto.LeaveRequest, error) {
	if f == nil {
		return requests, nil
	}
	matched := make([]pto.LeaveRequest, 0, len(requests))
	for _, r := range requests {
		ok, err := f.MatchLeave(r)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Holidays returns the holidays matching f, or all of them when f is nil.
// The first evaluation error stops the scan.
func Holidays(f CompiledFilter, holidays []pto.Holiday) ([]pto.Holiday, error) {
	if f == nil {
		return holidays, nil
	}
	matched := make([]pto.Holiday, 0, len(holidays))
	for _, h := range holidays {
		ok, err := f.MatchHoliday(h)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, h)
		}
	}
	return matched, nil
}
