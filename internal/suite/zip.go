package suite

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ZipEntryRule matches archive entry names and extracts the case key from
// the given capture group.
type ZipEntryRule struct {
	Pattern *regexp.Regexp
	Group   int
}

// ZipRules pairs input and output entries of a test archive.
type ZipRules struct {
	In        ZipEntryRule
	Out       ZipEntryRule
	Timelimit time.Duration
	Match     MatchSpec
}

// DefaultZipRules matches the in/NAME.txt + out/NAME.txt layout used by
// downloaded test archives.
func DefaultZipRules(timelimit time.Duration, match MatchSpec) ZipRules {
	return ZipRules{
		In:        ZipEntryRule{Pattern: regexp.MustCompile(`\Ain/([^/]+)\.txt\z`), Group: 1},
		Out:       ZipEntryRule{Pattern: regexp.MustCompile(`\Aout/([^/]+)\.txt\z`), Group: 1},
		Timelimit: timelimit,
		Match:     match,
	}
}

// LoadZip reads a test archive and builds one SimpleCase per in/out pair.
// Entries without a counterpart are dropped. Cases are sorted numerically
// when their keys are numbers, lexicographically otherwise.
func LoadZip(path string, rules ZipRules) ([]SimpleCase, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(err, "open test archive")
	}
	defer archive.Close()

	type pair struct {
		in  *string
		out *string
	}
	pairs := map[string]*pair{}
	get := func(key string) *pair {
		if p, ok := pairs[key]; ok {
			return p
		}
		p := &pair{}
		pairs[key] = p
		return p
	}

	for _, f := range archive.File {
		key, isIn, ok, err := classify(f.Name, rules)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, errors.Wrapf(err, "read archive entry %q", f.Name)
		}
		if isIn {
			get(key).in = &content
		} else {
			get(key).out = &content
		}
	}

	keys := make([]string, 0, len(pairs))
	for key, p := range pairs {
		if p.in != nil && p.out != nil {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, erri := strconv.Atoi(keys[i])
		nj, errj := strconv.Atoi(keys[j])
		switch {
		case erri == nil && errj == nil:
			return ni < nj
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	filename := filepath.Base(path)
	cases := make([]SimpleCase, 0, len(keys))
	for _, key := range keys {
		p := pairs[key]
		cases = append(cases, SimpleCase{
			Name:      fmt.Sprintf("%s:%s", filename, key),
			Input:     *p.in,
			Output:    p.out,
			Timelimit: rules.Timelimit,
			Match:     rules.Match,
		})
	}
	return cases, nil
}

func classify(name string, rules ZipRules) (key string, isIn, ok bool, err error) {
	for _, rule := range []struct {
		rule ZipEntryRule
		in   bool
	}{{rules.In, true}, {rules.Out, false}} {
		caps := rule.rule.Pattern.FindStringSubmatch(name)
		if caps == nil {
			continue
		}
		if rule.rule.Group >= len(caps) {
			return "", false, false, errors.Errorf("capture group %d out of bounds for pattern %q", rule.rule.Group, rule.rule.Pattern)
		}
		return caps[rule.rule.Group], rule.in, true, nil
	}
	return "", false, false, nil
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
