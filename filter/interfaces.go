package filter

import (
	"github.com/s0up4200/ptoctl/pto"
)

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	// MatchLeave checks if a leave request matches the filter criteria
	MatchLeave(req pto.LeaveRequest) (bool, error)

	// MatchHoliday checks if a holiday matches the filter criteria
	MatchHoliday(h pto.Holiday) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
