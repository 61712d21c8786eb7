package config

import (
	"regexp"

	"github.com/pkg/errors"
)

// ReplaceSpec is a language's source-rewrite rule: the capture Group of
// the first Pattern match is replaced with Replacement. It is applied once
// before a submission-time compile and never on a local judging run, so
// local and submitted sources can only diverge by this one substitution.
type ReplaceSpec struct {
	Pattern     string `yaml:"pattern"`
	Group       int    `yaml:"group"`
	Replacement string `yaml:"replacement"`
}

// Apply rewrites source according to the rule. It fails when the pattern
// does not compile, matches nothing, or lacks the configured group.
func (r ReplaceSpec) Apply(source string) (string, error) {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return "", errors.Wrapf(err, "compile replace pattern %q", r.Pattern)
	}
	m := re.FindStringSubmatchIndex(source)
	if m == nil {
		return "", errors.Errorf("replace pattern %q matched nothing", r.Pattern)
	}
	if r.Group < 0 || 2*r.Group+1 >= len(m) || m[2*r.Group] < 0 {
		return "", errors.Errorf("replace pattern %q has no capture group %d", r.Pattern, r.Group)
	}
	return source[:m[2*r.Group]] + r.Replacement + source[m[2*r.Group+1]:], nil
}
