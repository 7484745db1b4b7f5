package rules

import (
	"strings"

	"github.com/gobwas/glob"
)

// patternSet matches names literally or, for entries containing glob
// metacharacters, with gobwas/glob using '.' as the separator.
type patternSet struct {
	exact map[string]bool
	globs []glob.Glob
}

func compilePatterns(raw []string) patternSet {
	ps := patternSet{exact: make(map[string]bool)}
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.ContainsAny(p, "*?[]{}") {
			ps.exact[p] = true
			continue
		}
		if g, err := glob.Compile(p, '.'); err == nil {
			ps.globs = append(ps.globs, g)
		}
	}
	return ps
}

func (ps patternSet) empty() bool {
	return len(ps.exact) == 0 && len(ps.globs) == 0
}

func (ps patternSet) match(name string) bool {
	if ps.exact[name] {
		return true
	}
	for _, g := range ps.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// matchCall also accepts the identifier with instance markers removed, so
// "Shape.area" matches a recorded "$Shape$.area".
func (ps patternSet) matchCall(name string) bool {
	return ps.match(name) || ps.match(stripInstanceMarkers(name))
}

func stripInstanceMarkers(name string) string {
	return strings.ReplaceAll(name, "$", "")
}
