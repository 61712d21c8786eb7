package suite

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseSimpleSuite(t *testing.T) {
	data := []byte(`
type: simple
timelimit: 2.0
match: lines
cases:
  - in: "1\n2 3\ntest\n"
    out: "6 test\n"
  - in: "0\n"
`)
	s, err := Parse(data, "a.yaml", "Problem Name")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Kind != KindSimple {
		t.Fatalf("expected simple suite, got %v", s.Kind)
	}
	if len(s.Simple) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(s.Simple))
	}
	c := s.Simple[0]
	if c.Name != "a.yaml[0]" {
		t.Errorf("unexpected case name %q", c.Name)
	}
	if c.Input != "1\n2 3\ntest\n" {
		t.Errorf("unexpected input %q", c.Input)
	}
	if c.Output == nil || *c.Output != "6 test\n" {
		t.Errorf("unexpected output %v", c.Output)
	}
	if c.Timelimit != 2*time.Second {
		t.Errorf("unexpected timelimit %v", c.Timelimit)
	}
	if c.Match.Mode != MatchLines {
		t.Errorf("unexpected match mode %v", c.Match.Mode)
	}
	if s.Simple[1].Output != nil {
		t.Errorf("case without out should accept any output")
	}
}

func TestParseFloatMatch(t *testing.T) {
	data := []byte(`
type: simple
match:
  float:
    absolute_error: 1.0e-9
    relative_error: 1.0e-6
cases:
  - in: "1\n"
    out: "0.333333333\n"
`)
	s, err := Parse(data, "b.yaml", "b")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	m := s.Simple[0].Match
	if m.Mode != MatchFloat {
		t.Fatalf("expected float match, got %v", m.Mode)
	}
	if m.AbsoluteError != 1e-9 || m.RelativeError != 1e-6 {
		t.Fatalf("unexpected error bounds: %v %v", m.AbsoluteError, m.RelativeError)
	}
}

func TestParseInteractiveSuite(t *testing.T) {
	data := []byte(`
type: interactive
timelimit: 10
tester: python3
each_args:
  - ["0", "10"]
  - ["5"]
`)
	s, err := Parse(data, "c.yaml", "c")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Kind != KindInteractive || s.Tester != "python3" {
		t.Fatalf("unexpected suite: %+v", s)
	}
	if len(s.Interactive) != 1 {
		t.Fatalf("expected 1 interactive case, got %d", len(s.Interactive))
	}
	c := s.Interactive[0]
	if len(c.EachArgs) != 2 || c.EachArgs[0][1] != "10" || c.EachArgs[1][0] != "5" {
		t.Fatalf("unexpected each_args: %v", c.EachArgs)
	}
	if c.Timelimit != 10*time.Second {
		t.Fatalf("unexpected timelimit %v", c.Timelimit)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for name, data := range map[string]string{
		"unknown type":       "type: fancy\n",
		"no tester":          "type: interactive\n",
		"negative timelimit": "type: simple\ntimelimit: -1\n",
		"bad match":          "type: simple\nmatch: fuzzy\n",
	} {
		if _, err := Parse([]byte(data), "x.yaml", "x"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseZeroTimelimitMeansUnbounded(t *testing.T) {
	s, err := Parse([]byte("type: simple\ncases:\n  - in: \"1\"\n"), "x.yaml", "x")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Simple[0].Timelimit != 0 {
		t.Fatalf("expected unbounded timelimit, got %v", s.Simple[0].Timelimit)
	}
}

func TestLoadAppliesSuitePolicyToArchiveCases(t *testing.T) {
	dir := t.TempDir()
	suitePath := filepath.Join(dir, "a.yml")
	body := "type: simple\ntimelimit: 2.0\nmatch: lines\n"
	if err := os.WriteFile(suitePath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	writeZip(t, filepath.Join(dir, "a.zip"), map[string]string{
		"in/1.txt":  "1\n",
		"out/1.txt": "one\n",
	})

	s, err := Load(suitePath, "a")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(s.Simple) != 1 {
		t.Fatalf("expected 1 archive case, got %d", len(s.Simple))
	}
	c := s.Simple[0]
	if c.Timelimit != 2*time.Second {
		t.Errorf("archive case lost the suite timelimit: got %v, want 2s", c.Timelimit)
	}
	if c.Match.Mode != MatchLines {
		t.Errorf("archive case lost the suite match mode: got %v, want %v", c.Match.Mode, MatchLines)
	}
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(file)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := file.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadZipPairsAndSorts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.zip")
	writeZip(t, path, map[string]string{
		"in/10.txt":     "ten in\r\n",
		"out/10.txt":    "ten out\n",
		"in/2.txt":      "two in\n",
		"out/2.txt":     "two out\n",
		"in/orphan.txt": "no pair\n",
		"notes.md":      "ignored",
	})

	cases, err := LoadZip(path, DefaultZipRules(time.Second, MatchSpec{Mode: MatchExact}))
	if err != nil {
		t.Fatalf("LoadZip failed: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].Name != "a.zip:2" || cases[1].Name != "a.zip:10" {
		t.Fatalf("unexpected order: %q, %q", cases[0].Name, cases[1].Name)
	}
	if cases[1].Input != "ten in\n" {
		t.Fatalf("CRLF not normalized: %q", cases[1].Input)
	}
	if *cases[0].Output != "two out\n" {
		t.Fatalf("unexpected output %q", *cases[0].Output)
	}
}
