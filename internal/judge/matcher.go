package judge

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cutekitek/cpjudge/internal/suite"
)

// MatchResult classifies an expected/actual comparison. It is always
// usable for reporting; comparison itself cannot fail.
type MatchResult struct {
	Matched bool
	Diff    string
}

func matched() MatchResult { return MatchResult{Matched: true} }

func mismatched(format string, args ...interface{}) MatchResult {
	return MatchResult{Diff: fmt.Sprintf(format, args...)}
}

// Compare checks actual output against the expected one under the given
// match policy.
func Compare(expected, actual string, spec suite.MatchSpec) MatchResult {
	switch spec.Mode {
	case suite.MatchLines:
		return compareLines(expected, actual)
	case suite.MatchFloat:
		return compareFloat(expected, actual, spec.AbsoluteError, spec.RelativeError)
	default:
		return compareExact(expected, actual)
	}
}

// compareExact forgives a missing trailing newline on either side and
// nothing else.
func compareExact(expected, actual string) MatchResult {
	if ensureTrailingNewline(expected) == ensureTrailingNewline(actual) {
		return matched()
	}
	expectedLines := splitLines(expected)
	actualLines := splitLines(actual)
	for i := 0; i < len(expectedLines) && i < len(actualLines); i++ {
		if expectedLines[i] != actualLines[i] {
			return mismatched("line %d: expected %q, got %q", i+1, expectedLines[i], actualLines[i])
		}
	}
	return mismatched("expected %d lines, got %d", len(expectedLines), len(actualLines))
}

// compareLines requires equal line counts and per-line equality after
// stripping trailing whitespace; interior whitespace is significant.
func compareLines(expected, actual string) MatchResult {
	expectedLines := splitLines(expected)
	actualLines := splitLines(actual)
	if len(expectedLines) != len(actualLines) {
		return mismatched("expected %d lines, got %d", len(expectedLines), len(actualLines))
	}
	for i := range expectedLines {
		want := strings.TrimRight(expectedLines[i], " \t\r")
		got := strings.TrimRight(actualLines[i], " \t\r")
		if want != got {
			return mismatched("line %d: expected %q, got %q", i+1, want, got)
		}
	}
	return matched()
}

// compareFloat tokenizes by whitespace preserving line boundaries. Numeric
// token pairs pass within the absolute or relative error bound; anything
// else must be string-equal. Shape mismatches fail regardless of content.
func compareFloat(expected, actual string, absErr, relErr float64) MatchResult {
	expectedLines := splitLines(expected)
	actualLines := splitLines(actual)
	if len(expectedLines) != len(actualLines) {
		return mismatched("expected %d lines, got %d", len(expectedLines), len(actualLines))
	}
	for i := range expectedLines {
		want := strings.Fields(expectedLines[i])
		got := strings.Fields(actualLines[i])
		if len(want) != len(got) {
			return mismatched("line %d: expected %d tokens, got %d", i+1, len(want), len(got))
		}
		for j := range want {
			if res := compareToken(want[j], got[j], absErr, relErr); !res.Matched {
				return mismatched("line %d, token %d: %s", i+1, j+1, res.Diff)
			}
		}
	}
	return matched()
}

// compareToken accepts a numeric pair when the difference is within the
// absolute bound or within the relative bound scaled by the actual value.
func compareToken(want, got string, absErr, relErr float64) MatchResult {
	w, errW := strconv.ParseFloat(want, 64)
	g, errG := strconv.ParseFloat(got, 64)
	if errW != nil || errG != nil {
		if want == got {
			return matched()
		}
		return mismatched("expected %q, got %q", want, got)
	}
	d := math.Abs(g - w)
	if d <= absErr || d <= relErr*math.Abs(g) {
		return matched()
	}
	return mismatched("expected %s, got %s (difference %g)", want, got, d)
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
