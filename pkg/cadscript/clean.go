package cadscript

import (
	"fmt"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```(?:python)?\\s*")

// chatterPrefixes are conversational lead-ins some models emit around code.
var chatterPrefixes = []string{"here is", "here's", "sure", "this code", "below is", "certainly"}

// Clean removes markdown fences and conversational fluff from an LLM
// response, leaving only lines that look like script text.
func Clean(raw string) string {
	code := fenceRe.ReplaceAllString(raw, "")

	lines := strings.Split(code, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		skip := false
		for _, prefix := range chatterPrefixes {
			if strings.HasPrefix(lower, prefix) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// forbiddenTokens are modules and calls a generated script has no business
// touching. The executor refuses the script outright when any appears.
var forbiddenTokens = []string{
	"os.", "sys.", "subprocess", "eval(", "open(", "requests.", "socket", "__import__",
}

// CheckSafe screens script text before execution. This is a coarse textual
// gate, not a sandbox; the execution environment is still the real boundary.
func CheckSafe(code string) error {
	for _, token := range forbiddenTokens {
		if strings.Contains(code, token) {
			return fmt.Errorf("%w: found %q", ErrUnsafeScript, token)
		}
	}
	return nil
}

// AutoCorrect applies the best-effort fixes the executor is allowed to make
// before running a script: fence/chatter cleanup and a missing cadquery
// import. The returned text is what actually runs, and callers compare it
// against what was submitted to decide which notice to surface.
func AutoCorrect(code string) string {
	fixed := Clean(code)
	if !strings.Contains(fixed, "import cadquery") {
		fixed = "import cadquery as cq\n" + fixed
	}
	return fixed
}
