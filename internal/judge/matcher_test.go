package judge

import (
	"testing"

	"github.com/cutekitek/cpjudge/internal/suite"
)

func TestCompareExact(t *testing.T) {
	exact := suite.MatchSpec{Mode: suite.MatchExact}
	tests := []struct {
		name     string
		expected string
		actual   string
		matched  bool
	}{
		{"identical", "6 test\n", "6 test\n", true},
		{"missing trailing newline in actual", "6 test\n", "6 test", true},
		{"missing trailing newline in expected", "6 test", "6 test\n", true},
		{"interior whitespace differs", "6 test", "6  test", false},
		{"different content", "6 test\n", "7 test\n", false},
		{"extra line", "a\n", "a\nb\n", false},
		{"trailing space differs", "a \n", "a\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compare(tt.expected, tt.actual, exact)
			if res.Matched != tt.matched {
				t.Fatalf("expected matched=%v, got %v (diff: %s)", tt.matched, res.Matched, res.Diff)
			}
			if !res.Matched && res.Diff == "" {
				t.Fatalf("mismatch must carry a difference description")
			}
		})
	}
}

func TestCompareLines(t *testing.T) {
	lines := suite.MatchSpec{Mode: suite.MatchLines}
	tests := []struct {
		name     string
		expected string
		actual   string
		matched  bool
	}{
		{"trailing whitespace forgiven", "1 2 \n3", "1 2\n3", true},
		{"interior whitespace significant", "1  2\n3", "1 2\n3", false},
		{"line count mismatch", "1\n2\n", "1\n", false},
		{"tabs at end forgiven", "a\t\nb", "a\nb", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compare(tt.expected, tt.actual, lines)
			if res.Matched != tt.matched {
				t.Fatalf("expected matched=%v, got %v (diff: %s)", tt.matched, res.Matched, res.Diff)
			}
		})
	}
}

func TestCompareFloat(t *testing.T) {
	spec := suite.MatchSpec{Mode: suite.MatchFloat, AbsoluteError: 1e-9, RelativeError: 1e-9}
	tests := []struct {
		name     string
		expected string
		actual   string
		matched  bool
	}{
		{"within absolute error", "1.0000000001", "1.0", true},
		{"outside both errors", "1.1", "1.0", false},
		{"relative error on large values", "1000000000", "1000000000.5", true},
		{"non-numeric tokens equal", "YES 1.0", "YES 1.0", true},
		{"non-numeric tokens differ", "YES 1.0", "NO 1.0", false},
		{"token count mismatch", "1.0 2.0", "1.0", false},
		{"line count mismatch", "1.0\n2.0", "1.0", false},
		{"line boundaries preserved", "1.0 2.0\n3.0", "1.0\n2.0 3.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compare(tt.expected, tt.actual, spec)
			if res.Matched != tt.matched {
				t.Fatalf("expected matched=%v, got %v (diff: %s)", tt.matched, res.Matched, res.Diff)
			}
		})
	}
}

func TestCompareFloatRelativeBaseIsActual(t *testing.T) {
	spec := suite.MatchSpec{Mode: suite.MatchFloat, RelativeError: 0.1}
	if res := Compare("90", "100", spec); !res.Matched {
		t.Fatalf("|100-90| is within 0.1*|100|: %s", res.Diff)
	}
	if res := Compare("100", "90", spec); res.Matched {
		t.Fatal("|90-100| exceeds 0.1*|90|, must mismatch")
	}
}
