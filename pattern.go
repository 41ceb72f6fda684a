package tabfs

import (
	"regexp"
	"strconv"
	"strings"
)

// varKind selects how a bound path segment is parsed.
type varKind int

const (
	varInt varKind = iota
	varString
)

// patternVar describes one typed wildcard segment of a compiled pattern.
type patternVar struct {
	snakeName string // as written in the pattern, e.g. "TAB_ID"
	boundName string // canonicalized, e.g. "tabId"
	kind      varKind
}

// A pattern is a compiled route pattern: an anchored regular expression
// plus the ordered list of typed variables it captures.
type pattern struct {
	raw  string
	re   *regexp.Regexp
	vars []patternVar
}

// wildcardSegment matches a single "#NAME" or ":NAME" pattern segment and
// captures the sigil and the uppercase-with-underscores name.
var wildcardSegment = regexp.MustCompile(`^([#:])([A-Z][A-Z0-9_]*)$`)

// compilePattern splits raw on "/", escapes literal segments, and replaces
// each typed wildcard with a named capture group: "#" captures digits only,
// ":" captures any run of non-slash characters. The result is anchored at
// both ends so matching is always whole-string.
//
// Pattern compilation is total and never returns an error, matching the
// route catalog's use of patterns as compile-time literals. A segment that
// is not exactly a sigil followed by an uppercase name (e.g. ":foo" or
// ":NAME.txt") is not a wildcard: it is compiled as a literal segment.
func compilePattern(raw string) *pattern {
	segments := Path(raw).Names()
	restyped := make([]string, 0, len(segments))
	vars := make([]patternVar, 0)

	for _, seg := range segments {
		m := wildcardSegment.FindStringSubmatch(seg)
		if m == nil {
			restyped = append(restyped, regexp.QuoteMeta(seg))
			continue
		}

		sigil, snakeName := m[1], m[2]
		v := patternVar{snakeName: snakeName, boundName: canonicalizeVarName(snakeName)}
		switch sigil {
		case "#":
			v.kind = varInt
			restyped = append(restyped, "([0-9]+)")
		case ":":
			v.kind = varString
			restyped = append(restyped, "([^/]+)")
		default:
			panic("tabfs: unknown wildcard sigil " + sigil)
		}
		vars = append(vars, v)
	}

	re := regexp.MustCompile("^/" + strings.Join(restyped, "/") + "$")
	return &pattern{raw: raw, re: re, vars: vars}
}

// canonicalizeVarName turns "TAB_ID" into "tabId": lowercase the whole
// name, then remove each underscore by uppercasing the letter after it.
func canonicalizeVarName(snake string) string {
	lower := strings.ToLower(snake)
	var b strings.Builder
	upperNext := false
	for i, r := range lower {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteString(strings.ToUpper(string(r)))
			upperNext = false
			continue
		}
		if i == 0 {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Bindings maps a canonicalized path variable name to its typed value:
// int64 for "#" variables, string for ":" variables.
type Bindings map[string]interface{}

// match reports whether path satisfies the pattern, returning the bound
// path variables on success. A non-matching path is not an error — it is
// simply reported as false, per the compiler's design contract.
func (p *pattern) match(path string) (Bindings, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	bindings := make(Bindings, len(p.vars))
	for i, v := range p.vars {
		raw := m[i+1]
		switch v.kind {
		case varInt:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				// the regex only admits [0-9]+, so this should be unreachable
				return nil, false
			}
			bindings[v.boundName] = n
		case varString:
			bindings[v.boundName] = raw
		}
	}
	return bindings, true
}
