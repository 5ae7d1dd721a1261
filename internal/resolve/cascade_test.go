package resolve

import (
	"math"
	"testing"
)

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in        string
		want      int
		wantClean bool
	}{
		{"2020", 2020, true},
		{"03", 3, true},
		{" 12", 12, true},
		{"12 ", 12, true},
		{"+7", 7, true},
		{"-5", -5, true},
		{"15T10:00:00Z", 15, false},
		{"2a", 2, false},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"99999999999999999999999", math.MaxInt, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, clean := leadingInt(tt.in)
			if got != tt.want || clean != tt.wantClean {
				t.Errorf("leadingInt(%q) = (%d, %v), want (%d, %v)", tt.in, got, clean, tt.want, tt.wantClean)
			}
		})
	}
}

func TestFirstOf(t *testing.T) {
	var calls []string
	step := func(name string, v int, ok bool) strategy[string, int] {
		return func(string) (int, bool) {
			calls = append(calls, name)
			return v, ok
		}
	}

	got, ok := firstOf("src", step("a", 0, false), step("b", 2, true), step("c", 3, true))
	if !ok || got != 2 {
		t.Errorf("firstOf() = (%d, %v), want (2, true)", got, ok)
	}
	if len(calls) != 2 {
		t.Errorf("firstOf() evaluated %v, want to stop after b", calls)
	}

	if _, ok := firstOf[string, int]("src"); ok {
		t.Error("firstOf() with no strategies should report absent")
	}
}

func TestIntegerAbsent(t *testing.T) {
	if got := integer("42", false); got != 0 {
		t.Errorf("integer(absent) = %d, want 0", got)
	}
	if got := integer("42", true); got != 42 {
		t.Errorf("integer(42) = %d, want 42", got)
	}
}
