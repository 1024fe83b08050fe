// Package features derives a human-readable operation list from generated
// CadQuery script text. It is a best-effort textual scan for display only:
// it has no awareness of comments, strings, or control flow, and is never
// used to make decisions about the script.
package features

import (
	"fmt"
	"regexp"
	"strings"
)

// Entry is one recognized operation occurrence.
type Entry struct {
	Name    string `json:"name"`
	Details string `json:"details"`
}

// signature is one known operation call pattern. The detail function
// receives the regexp captures and renders the display string.
type signature struct {
	name    string
	re      *regexp.Regexp
	details func(args []string) string
}

const num = `(-?\d+(?:\.\d+)?)`

// catalogue order is the primary sort key of the output; occurrence order
// within a pattern is the secondary key. The two hole arities are scanned
// as distinct signatures and can in principle both match hand-written text;
// that imprecision is accepted for a display aid.
var catalogue = []signature{
	{"Box", regexp.MustCompile(`\.box\(\s*` + num + `\s*,\s*` + num + `\s*,\s*` + num + `\s*\)`),
		func(a []string) string { return fmt.Sprintf("%sx%sx%s", a[0], a[1], a[2]) }},
	{"Cylinder", regexp.MustCompile(`\.cylinder\(\s*` + num + `\s*,\s*` + num + `\s*\)`),
		func(a []string) string { return fmt.Sprintf("h=%s, r=%s", a[0], a[1]) }},
	{"Sphere", regexp.MustCompile(`\.sphere\(\s*` + num + `\s*\)`),
		func(a []string) string { return "r=" + a[0] }},
	{"Through Hole", regexp.MustCompile(`\.hole\(\s*` + num + `\s*\)`),
		func(a []string) string { return "d=" + a[0] }},
	{"Blind Hole", regexp.MustCompile(`\.hole\(\s*` + num + `\s*,\s*` + num + `\s*\)`),
		func(a []string) string { return fmt.Sprintf("d=%s, depth=%s", a[0], a[1]) }},
	{"Fillet", regexp.MustCompile(`\.fillet\(\s*` + num + `\s*\)`),
		func(a []string) string { return "r=" + a[0] }},
	{"Chamfer", regexp.MustCompile(`\.chamfer\(\s*` + num + `\s*\)`),
		func(a []string) string { return "d=" + a[0] }},
	{"Shell", regexp.MustCompile(`\.shell\(\s*` + num + `\s*\)`),
		func(a []string) string { return "t=" + a[0] }},
	{"Extrude", regexp.MustCompile(`\.extrude\(\s*` + num + `\s*\)`),
		func(a []string) string { return "h=" + a[0] }},
	{"Circle", regexp.MustCompile(`\.circle\(\s*` + num + `\s*\)`),
		func(a []string) string { return "r=" + a[0] }},
	{"Rectangle", regexp.MustCompile(`\.rect\(\s*` + num + `\s*,\s*` + num + `\s*\)`),
		func(a []string) string { return fmt.Sprintf("%sx%s", a[0], a[1]) }},
	{"Cut", regexp.MustCompile(`\.cut\(`),
		func(a []string) string { return "boolean subtraction" }},
	{"Union", regexp.MustCompile(`\.union\(`),
		func(a []string) string { return "boolean union" }},
	{"Counterbore Hole", regexp.MustCompile(`\.cboreHole\(\s*` + num + `\s*,\s*` + num + `\s*,\s*` + num),
		func(a []string) string { return fmt.Sprintf("d=%s, cbore=%sx%s", a[0], a[1], a[2]) }},
	{"Countersink Hole", regexp.MustCompile(`\.cskHole\(\s*` + num + `\s*,\s*` + num + `\s*,\s*` + num),
		func(a []string) string { return fmt.Sprintf("d=%s, csk=%s@%s", a[0], a[1], a[2]) }},
}

// PlaceholderEntry is returned instead of an empty list so the display
// layer never special-cases emptiness.
var PlaceholderEntry = Entry{
	Name:    "No features detected",
	Details: "describe a model to get started",
}

// Summarize scans the entire script for every catalogued signature and
// returns one entry per non-overlapping occurrence.
func Summarize(script string) []Entry {
	var entries []Entry
	for _, sig := range catalogue {
		matches := sig.re.FindAllStringSubmatch(script, -1)
		for _, m := range matches {
			args := make([]string, 0, len(m)-1)
			for _, cap := range m[1:] {
				args = append(args, strings.TrimSpace(cap))
			}
			entries = append(entries, Entry{
				Name:    sig.name,
				Details: sig.details(args),
			})
		}
	}

	if len(entries) == 0 {
		return []Entry{PlaceholderEntry}
	}
	return entries
}
