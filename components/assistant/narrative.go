package assistant

import (
	"regexp"
	"strings"
)

// narrativeSubstitution is one step of the narrative formatter. Each step is a
// single global replacement applied once over the previous step's output, so
// the order of the table is load-bearing.
type narrativeSubstitution struct {
	pattern *regexp.Regexp
	repl    string
}

var narrativeSubstitutions = []narrativeSubstitution{
	// Bold markers first, before list handling can split them.
	{regexp.MustCompile(`\*\*(.*?)\*\*`), `<strong>$1</strong>`},
	// Blank lines become paragraph breaks.
	{regexp.MustCompile(`\n\n`), `</p><p>`},
	// Bullet and dash list line starts.
	{regexp.MustCompile(`\n\* `), `<br>&bull; `},
	{regexp.MustCompile(`\n- `), `<br>&bull; `},
	// Numbered list line starts keep their numbers.
	{regexp.MustCompile(`\n(\d+)\. `), `<br>$1. `},
}

// FormatNarrative converts the advisor's narrative text into display markup.
// The input is escaped before any substitution runs, so model-generated
// content cannot inject markup of its own.
func FormatNarrative(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	out := EscapeText(text)
	for _, sub := range narrativeSubstitutions {
		out = sub.pattern.ReplaceAllString(out, sub.repl)
	}
	return "<p>" + out + "</p>"
}
