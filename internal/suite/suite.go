// Package suite holds the canonical in-memory model of a problem's test
// cases and loads it from YAML suite files and ZIP test archives.
package suite

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Kind tells whether a suite holds batch cases or an interactive exchange.
type Kind int

const (
	KindSimple Kind = iota
	KindInteractive
)

// MatchMode selects the output comparison policy for a simple case.
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchLines
	MatchFloat
)

// MatchSpec is the full comparison policy. The error bounds are only
// meaningful for MatchFloat.
type MatchSpec struct {
	Mode          MatchMode
	AbsoluteError float64
	RelativeError float64
}

// SimpleCase is one fixed input with an optional expected output. A nil
// Output accepts anything the solution prints as long as it exits 0.
type SimpleCase struct {
	Name      string
	Input     string
	Output    *string
	Timelimit time.Duration
	Match     MatchSpec
}

// InteractiveCase is one test case judged by an external tester program.
// Each entry of EachArgs produces one independent session; an empty
// EachArgs means a single session with no arguments.
type InteractiveCase struct {
	Name      string
	EachArgs  [][]string
	Timelimit time.Duration
}

// Suite is immutable once constructed; judging never mutates it.
// Timelimit and Match are the suite-level settings, kept so cases merged
// from a sibling archive get the same policy as inline ones. A zero
// Timelimit means unbounded.
type Suite struct {
	Problem     string
	Kind        Kind
	Tester      string
	Timelimit   time.Duration
	Match       MatchSpec
	Simple      []SimpleCase
	Interactive []InteractiveCase
}

type caseSchema struct {
	In  string  `yaml:"in"`
	Out *string `yaml:"out"`
}

type suiteSchema struct {
	Type      string       `yaml:"type"`
	Timelimit float64      `yaml:"timelimit"`
	Match     MatchSpec    `yaml:"match"`
	Cases     []caseSchema `yaml:"cases"`
	Tester    string       `yaml:"tester"`
	EachArgs  [][]string   `yaml:"each_args"`
}

// UnmarshalYAML accepts both the scalar form ("exact", "lines") and the
// mapping form (float: {absolute_error: ..., relative_error: ...}).
func (m *MatchSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case "", "exact":
			m.Mode = MatchExact
		case "lines":
			m.Mode = MatchLines
		case "float":
			m.Mode = MatchFloat
		default:
			return errors.Errorf("unknown match mode %q", node.Value)
		}
		return nil
	case yaml.MappingNode:
		var aux struct {
			Float struct {
				AbsoluteError float64 `yaml:"absolute_error"`
				RelativeError float64 `yaml:"relative_error"`
			} `yaml:"float"`
		}
		if err := node.Decode(&aux); err != nil {
			return errors.Wrap(err, "decode match mapping")
		}
		m.Mode = MatchFloat
		m.AbsoluteError = aux.Float.AbsoluteError
		m.RelativeError = aux.Float.RelativeError
		return nil
	default:
		return errors.New("match must be a scalar or a mapping")
	}
}

// Load reads the suite file for problem and, if a sibling <name>.zip
// archive exists, merges its cases in.
func Load(path, problem string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read suite file")
	}
	s, err := Parse(data, filepath.Base(path), problem)
	if err != nil {
		return nil, err
	}
	if s.Kind == KindSimple {
		zipPath := trimExt(path) + ".zip"
		if _, err := os.Stat(zipPath); err == nil {
			extra, err := LoadZip(zipPath, DefaultZipRules(s.Timelimit, s.Match))
			if err != nil {
				return nil, err
			}
			s.Simple = append(s.Simple, extra...)
		}
	}
	return s, nil
}

// Parse builds a Suite from suite markup. name is used as the case id
// prefix, the way the source file name is in stored suites.
func Parse(data []byte, name, problem string) (*Suite, error) {
	var schema suiteSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, errors.Wrap(err, "decode suite")
	}
	if schema.Timelimit < 0 {
		return nil, errors.New("timelimit must not be negative")
	}
	if schema.Match.AbsoluteError < 0 || schema.Match.RelativeError < 0 ||
		math.IsNaN(schema.Match.AbsoluteError) || math.IsNaN(schema.Match.RelativeError) {
		return nil, errors.New("float error bounds must be non-negative")
	}
	timelimit := time.Duration(schema.Timelimit * float64(time.Second))

	switch schema.Type {
	case "simple":
		s := &Suite{Problem: problem, Kind: KindSimple, Timelimit: timelimit, Match: schema.Match}
		for i, c := range schema.Cases {
			s.Simple = append(s.Simple, SimpleCase{
				Name:      fmt.Sprintf("%s[%d]", name, i),
				Input:     c.In,
				Output:    c.Out,
				Timelimit: timelimit,
				Match:     schema.Match,
			})
		}
		return s, nil
	case "interactive":
		if schema.Tester == "" {
			return nil, errors.New("interactive suite needs a tester")
		}
		return &Suite{
			Problem:   problem,
			Kind:      KindInteractive,
			Tester:    schema.Tester,
			Timelimit: timelimit,
			Interactive: []InteractiveCase{{
				Name:      name,
				EachArgs:  schema.EachArgs,
				Timelimit: timelimit,
			}},
		}, nil
	default:
		return nil, errors.Errorf("unknown suite type %q", schema.Type)
	}
}

// CaseIDs lists the case identifiers in suite order.
func (s *Suite) CaseIDs() []string {
	var ids []string
	for _, c := range s.Simple {
		ids = append(ids, c.Name)
	}
	for _, c := range s.Interactive {
		ids = append(ids, c.Name)
	}
	return ids
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}
