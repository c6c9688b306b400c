package filter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/s0up4200/ptoctl/pto"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `Status == "APPROVED"`,
			wantErr:    false,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `like(LeaveType, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Status == "APPROVED" and Days > 2 and not Deleted`,
			wantErr:    false,
		},
		{
			name:       "misspelled field",
			expression: `Stauts == "APPROVED"`,
			wantErr:    true,
		},
		{
			name:       "mismatched types",
			expression: `Days > Name`,
			wantErr:    true,
		},
		{
			name:        "invalid date literal",
			expression:  `StartDate > parseDate("2022-13-45")`,
			wantErr:     true,
			errContains: "invalid date literal",
		},
		{
			name:       "date literal in another layout",
			expression: `StartDate > parseDate("06/01/2022")`,
			wantErr:    false,
		},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.Expression() != tt.expression {
				t.Errorf("expected expression %q, got %q", tt.expression, filter.Expression())
			}
		})
	}
}

func TestCompilationErrorMessage(t *testing.T) {
	err := &CompilationError{Expression: "x", Reason: "empty expression", Position: -1}
	if got := err.Error(); got != "compilation error in 'x': empty expression" {
		t.Errorf("unexpected message %q", got)
	}

	err = &CompilationError{Expression: "x", Reason: "bad token", Position: 3}
	if got := err.Error(); got != "compilation error at position 3 in 'x': bad token" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestMatchLeave(t *testing.T) {
	deleted := true
	approved := pto.LeaveRequest{
		StartDate:     pto.NewDate(2022, time.June, 9),
		EndDate:       pto.NewDate(2022, time.June, 10),
		Status:        "APPROVED",
		LeaveTypeName: "Vacation",
	}
	canceled := pto.LeaveRequest{
		StartDate:     pto.NewDate(2022, time.May, 23),
		EndDate:       pto.NewDate(2022, time.May, 27),
		Status:        "CANCELED",
		LeaveTypeName: "Sick Leave",
		IsDeleted:     &deleted,
	}

	tests := []struct {
		name       string
		expression string
		req        pto.LeaveRequest
		expected   bool
	}{
		{"status match", `Status == "APPROVED"`, approved, true},
		{"status mismatch", `Status == "APPROVED"`, canceled, false},
		{"case insensitive contains", `like(LeaveType, "sick")`, canceled, true},
		{"days", `Days >= 5`, canceled, true},
		{"deleted", `Deleted`, canceled, true},
		{"not deleted", `not Deleted`, approved, true},
		{"upper helper", `upper(Status) == "APPROVED" and lower(LeaveType) == "vacation"`, approved, true},
		{"year helper", `year(StartDate) == 2022`, approved, true},
		{"date in the past", `daysSince(StartDate) > 30`, approved, true},
		{"holiday field on leave", `Name == "Christmas"`, approved, false},
		{"after parsed date", `StartDate > parseDate("2022-06-01")`, approved, true},
		{"before parsed date", `StartDate > parseDate("2022-06-01")`, canceled, false},
		{"us date layout", `StartDate >= parseDate("06/09/2022")`, approved, true},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile filter: %v", err)
			}
			got, err := f.MatchLeave(tt.req)
			if err != nil {
				t.Fatalf("unexpected evaluation error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v but got %v for expression %q", tt.expected, got, tt.expression)
			}
		})
	}
}

func TestMatchHoliday(t *testing.T) {
	christmas := pto.Holiday{
		Name:            "Christmas Day",
		Kind:            "PUBLIC",
		StartDate:       pto.NewDate(2023, time.December, 25),
		EndDate:         pto.NewDate(2023, time.December, 26),
		CountAsOvertime: true,
	}

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{"name", `like(Name, "christmas")`, true},
		{"type", `Type == "PUBLIC"`, true},
		{"overtime", `Overtime`, true},
		{"days", `Days == 2`, true},
		{"leave field on holiday", `Status == "APPROVED"`, false},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile filter: %v", err)
			}
			got, err := f.MatchHoliday(christmas)
			if err != nil {
				t.Fatalf("unexpected evaluation error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v but got %v for expression %q", tt.expected, got, tt.expression)
			}
		})
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isLong": func(days int) bool { return days > 3 },
	}))

	f, err := compiler.Compile(`isLong(Days)`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	long := pto.LeaveRequest{StartDate: pto.NewDate(2022, 5, 23), EndDate: pto.NewDate(2022, 5, 27)}
	short := pto.LeaveRequest{StartDate: pto.NewDate(2022, 6, 9), EndDate: pto.NewDate(2022, 6, 10)}

	if ok, err := f.MatchLeave(long); err != nil || !ok {
		t.Errorf("expected a five day leave to match, got %v (err %v)", ok, err)
	}
	if ok, err := f.MatchLeave(short); err != nil || ok {
		t.Errorf("expected a two day leave not to match, got %v (err %v)", ok, err)
	}
}

func TestEvaluationErrorsAreReported(t *testing.T) {
	f, err := NewExprCompiler().Compile(`StartDate > parseDate(LeaveType)`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	req := pto.LeaveRequest{StartDate: pto.NewDate(2022, 6, 9), LeaveTypeName: "2022-13-45"}
	ok, err := f.MatchLeave(req)
	if ok {
		t.Error("a record that cannot be evaluated must not match")
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *EvaluationError, got %T (%v)", err, err)
	}
	if evalErr.Record != "leave request 2022-06-09" {
		t.Errorf("unexpected record %q", evalErr.Record)
	}

	if _, err := Leaves(f, []pto.LeaveRequest{req}); !errors.As(err, &evalErr) {
		t.Errorf("expected Leaves to report the evaluation error, got %v", err)
	}
}

func TestLeavesAndHolidays(t *testing.T) {
	reqs := []pto.LeaveRequest{
		{Status: "APPROVED", LeaveTypeName: "Vacation"},
		{Status: "PENDING", LeaveTypeName: "Vacation"},
		{Status: "APPROVED", LeaveTypeName: "Sick Leave"},
	}

	if got, _ := Leaves(nil, reqs); len(got) != 3 {
		t.Errorf("nil filter should keep all requests, got %d", len(got))
	}

	f, err := NewExprCompiler().Compile(`Status == "APPROVED"`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}
	if got, err := Leaves(f, reqs); err != nil || len(got) != 2 {
		t.Errorf("expected 2 approved requests, got %d (err %v)", len(got), err)
	}

	holidays := []pto.Holiday{{Name: "New Year's Day"}, {Name: "Christmas Day"}}
	if got, _ := Holidays(nil, holidays); len(got) != 2 {
		t.Errorf("nil filter should keep all holidays, got %d", len(got))
	}

	f, err = NewExprCompiler().Compile(`like(Name, "new year")`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}
	got, err := Holidays(f, holidays)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "New Year's Day" {
		t.Errorf("unexpected holidays %v", got)
	}
}

func TestManager(t *testing.T) {
	manager := NewManager()

	err := manager.RegisterPresets(map[string]Preset{
		"approved": {Expression: `Status == "APPROVED"`, Description: "Approved requests"},
		"long":     {Expression: `Days > 3`, Description: "Longer than three days"},
	})
	if err != nil {
		t.Fatalf("failed to register presets: %v", err)
	}

	names := manager.Names()
	if len(names) != 2 || names[0] != "approved" || names[1] != "long" {
		t.Errorf("unexpected preset names %v", names)
	}
	if d := manager.Description("long"); d != "Longer than three days" {
		t.Errorf("unexpected description %q", d)
	}

	f, err := manager.Preset("approved")
	if err != nil {
		t.Fatalf("expected preset 'approved': %v", err)
	}
	if ok, err := f.MatchLeave(pto.LeaveRequest{Status: "APPROVED"}); err != nil || !ok {
		t.Errorf("expected approved preset to match, got %v (err %v)", ok, err)
	}

	if _, err := manager.Preset("missing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}

	err = manager.RegisterPresets(map[string]Preset{
		"broken": {Expression: `Status ==`},
	})
	if err == nil {
		t.Fatal("expected error for invalid preset")
	}
	if _, err := manager.Preset("broken"); !errors.Is(err, ErrPresetNotFound) {
		t.Error("invalid preset must not be registered")
	}
}

func TestCacheEffectiveness(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`Days > 2`)
	if err != nil {
		t.Fatalf("first compilation failed: %v", err)
	}
	second, err := compiler.Compile(`  Days > 2  `)
	if err != nil {
		t.Fatalf("second compilation failed: %v", err)
	}
	if first != second {
		t.Error("expected cached filter to be reused")
	}
	if compiler.Size() != 1 {
		t.Errorf("expected cache size 1 but got %d", compiler.Size())
	}

	for _, e := range []string{`Days > 3`, `Days > 4`} {
		if _, err := compiler.Compile(e); err != nil {
			t.Fatalf("compilation failed: %v", err)
		}
	}
	if compiler.Size() != 2 {
		t.Errorf("expected cache to be bounded at 2 but got %d", compiler.Size())
	}

	compiler.Clear()
	if compiler.Size() != 0 {
		t.Errorf("expected cache size 0 after clear but got %d", compiler.Size())
	}
}

func TestCacheEviction(t *testing.T) {
	c := newLRUCache(2)
	a := &exprFilter{expression: "a"}
	b := &exprFilter{expression: "b"}

	c.Put("a", a)
	c.Put("b", b)
	c.Get("a")
	c.Put("c", &exprFilter{expression: "c"})

	if _, ok := c.Get("b"); ok {
		t.Error("expected least recently used entry to be evicted")
	}
	if got, ok := c.Get("a"); !ok || got != a {
		t.Error("expected recently used entry to survive")
	}
}
