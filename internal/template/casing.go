package template

import (
	"strings"
	"unicode"
)

type caseStyle int

const (
	caseLower caseStyle = iota
	caseUpper
	caseKebab
	caseSnake
	caseScreaming
	caseMixed
	casePascal
	caseTitle
)

// caseTags is the closed set of `{...}` specifiers. An empty tag means lower.
var caseTags = map[string]caseStyle{
	"":          caseLower,
	"lower":     caseLower,
	"UPPER":     caseUpper,
	"kebab":     caseKebab,
	"snake":     caseSnake,
	"SCREAMING": caseScreaming,
	"mixed":     caseMixed,
	"Pascal":    casePascal,
	"Title":     caseTitle,
}

func (s caseStyle) apply(name string) string {
	switch s {
	case caseUpper:
		return strings.ToUpper(name)
	case caseKebab:
		return strings.Join(splitWords(name, strings.ToLower), "-")
	case caseSnake:
		return strings.Join(splitWords(name, strings.ToLower), "_")
	case caseScreaming:
		return strings.Join(splitWords(name, strings.ToUpper), "_")
	case caseMixed:
		words := splitWords(name, capitalize)
		if len(words) > 0 {
			words[0] = strings.ToLower(words[0])
		}
		return strings.Join(words, "")
	case casePascal:
		return strings.Join(splitWords(name, capitalize), "")
	case caseTitle:
		return strings.Join(splitWords(name, capitalize), " ")
	default:
		return strings.ToLower(name)
	}
}

// splitWords splits a problem name on whitespace, '-', '_' and on
// lower-to-upper case boundaries, applying conv to each word.
func splitWords(name string, conv func(string) string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, conv(string(cur)))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range name {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '_':
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return words
}

func capitalize(word string) string {
	rs := []rune(strings.ToLower(word))
	if len(rs) > 0 {
		rs[0] = unicode.ToUpper(rs[0])
	}
	return string(rs)
}
