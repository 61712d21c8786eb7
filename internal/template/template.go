// Package template expands the placeholder language used by judge
// configuration: `{tag}` case conversions of the problem name, `$name`
// variable and environment lookups, and `$$` for a literal dollar.
package template

import (
	"fmt"
	"os"
	"strings"
)

// Context carries everything a template may reference. Bindings hold the
// symbols "src", "bin", "*" and user-defined service variables; names not
// bound there fall back to LookupEnv (os.LookupEnv when nil).
type Context struct {
	Problem   string
	Bindings  map[string]string
	LookupEnv func(string) (string, bool)
}

// WithBindings returns a copy of ctx with extra bindings layered on top.
func (c Context) WithBindings(extra map[string]string) Context {
	merged := make(map[string]string, len(c.Bindings)+len(extra))
	for k, v := range c.Bindings {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	c.Bindings = merged
	return c
}

func (c Context) lookup(name string) (string, bool) {
	if v, ok := c.Bindings[name]; ok {
		return v, true
	}
	lookupEnv := c.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return lookupEnv(name)
}

// Error reports a malformed or unresolvable template. It is fatal for a
// whole judging run: the same configuration defect hits every case.
type Error struct {
	Template string
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("template %q: %s", e.Template, e.Reason)
}

// Resolve expands tmpl against ctx. It is a pure function: no I/O besides
// the environment lookup the context itself provides.
func Resolve(tmpl string, ctx Context) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tmpl); {
		switch tmpl[i] {
		case '$':
			i++
			if i < len(tmpl) && tmpl[i] == '$' {
				b.WriteByte('$')
				i++
				continue
			}
			name, next, err := scanVarName(tmpl, i)
			if err != nil {
				return "", err
			}
			val, ok := ctx.lookup(name)
			if !ok {
				return "", &Error{tmpl, varNotFoundReason(name)}
			}
			b.WriteString(val)
			i = next
		case '{':
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", &Error{tmpl, "unclosed '{'"}
			}
			tag := strings.TrimSpace(tmpl[i+1 : i+end])
			style, ok := caseTags[tag]
			if !ok {
				return "", &Error{tmpl, fmt.Sprintf("unknown case specifier %q", tag)}
			}
			b.WriteString(style.apply(ctx.Problem))
			i += end + 1
		case '}':
			return "", &Error{tmpl, "unmatched '}'"}
		default:
			b.WriteByte(tmpl[i])
			i++
		}
	}
	return b.String(), nil
}

// ResolvePath expands tmpl and normalizes the result as a path: empty or
// "." becomes "./", absolute paths stay as-is, anything else gets a "./"
// prefix unless already relative-prefixed.
func ResolvePath(tmpl string, ctx Context) (string, error) {
	p, err := Resolve(tmpl, ctx)
	if err != nil {
		return "", err
	}
	return normalizePath(p), nil
}

func normalizePath(p string) string {
	switch {
	case p == "" || p == ".":
		return "./"
	case strings.HasPrefix(p, "/"):
		return p
	case strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../"):
		return p
	default:
		return "./" + p
	}
}

func scanVarName(tmpl string, start int) (name string, next int, err error) {
	if start < len(tmpl) && tmpl[start] == '*' {
		return "*", start + 1, nil
	}
	i := start
	for i < len(tmpl) && isNameByte(tmpl[i]) {
		i++
	}
	if i == start {
		return "", 0, &Error{tmpl, "missing variable name after '$'"}
	}
	return tmpl[start:i], i, nil
}

func isNameByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

func varNotFoundReason(name string) string {
	switch name {
	case "src", "bin":
		return fmt.Sprintf("$%s referenced before it is bound", name)
	default:
		return fmt.Sprintf("undefined variable or environment variable %q", name)
	}
}
