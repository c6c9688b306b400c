package filter

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/ptoctl/pto"
)

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	dates := &dateLiteralCheck{}
	program, err := expr.Compile(expression,
		expr.Env(compileEnvironment(c.helperFuncs)),
		expr.Patch(dates),
		expr.AsBool(),
	)
	if err == nil && dates.err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "invalid date literal",
			Position:   -1,
			Err:        dates.err,
		}
	}
	if err != nil {
		compErr := &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
		var fileErr *file.Error
		if errors.As(err, &fileErr) {
			compErr.Position = fileErr.Column
		}
		return nil, compErr
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		funcs:      c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	funcs      map[string]any
}

// MatchLeave evaluates the filter against a leave request
func (f *exprFilter) MatchLeave(req pto.LeaveRequest) (bool, error) {
	env := f.newEnvironment()
	env["Status"] = req.Status
	env["LeaveType"] = req.LeaveTypeName
	env["StartDate"] = req.StartDate.Time
	env["EndDate"] = req.EndDate.Time
	env["Days"] = req.Days()
	env["Deleted"] = req.Deleted()
	return f.run(env, fmt.Sprintf("leave request %s", req.StartDate))
}

// MatchHoliday evaluates the filter against a holiday
func (f *exprFilter) MatchHoliday(h pto.Holiday) (bool, error) {
	env := f.newEnvironment()
	env["Name"] = h.Name
	env["Type"] = h.Kind
	env["StartDate"] = h.StartDate.Time
	env["EndDate"] = h.EndDate.Time
	env["Days"] = h.Days()
	env["Overtime"] = h.CountAsOvertime
	return f.run(env, fmt.Sprintf("holiday '%s'", h.Name))
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// newEnvironment starts every record from zero values of all fields, so a
// holiday field used while matching a leave request compares as empty.
func (f *exprFilter) newEnvironment() map[string]any {
	return compileEnvironment(f.funcs)
}

func (f *exprFilter) run(env map[string]any, record string) (bool, error) {
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Record:     record,
			Err:        err,
		}
	}
	matched, _ := result.(bool)
	return matched, nil
}

// recordFields declares every field a filter may reference, with its type
func recordFields() map[string]any {
	return map[string]any{
		// shared
		"StartDate": time.Time{},
		"EndDate":   time.Time{},
		"Days":      0,
		// leave requests
		"Status":    "",
		"LeaveType": "",
		"Deleted":   false,
		// holidays
		"Name":     "",
		"Type":     "",
		"Overtime": false,
	}
}

func compileEnvironment(funcs map[string]any) map[string]any {
	env := make(map[string]any, len(funcs)+16)
	maps.Copy(env, funcs)
	maps.Copy(env, recordFields())
	return env
}

// dateLiteralCheck rejects parseDate calls whose literal argument is not a date
type dateLiteralCheck struct {
	err error
}

func (v *dateLiteralCheck) Visit(node *ast.Node) {
	if v.err != nil {
		return
	}
	call, ok := (*node).(*ast.CallNode)
	if !ok || len(call.Arguments) != 1 {
		return
	}
	callee, ok := call.Callee.(*ast.IdentifierNode)
	if !ok || callee.Value != "parseDate" {
		return
	}
	lit, ok := call.Arguments[0].(*ast.StringNode)
	if !ok {
		return
	}
	if _, err := parseDate(lit.Value); err != nil {
		v.err = err
	}
}

// parseDate reads any layout dateparse understands as a UTC date
func parseDate(value string) (time.Time, error) {
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parseDate(%q): %w", value, err)
	}
	return t, nil
}

func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = parseDate
	env["year"] = func(t time.Time) int {
		return t.Year()
	}
	// String helpers
	env["like"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}
