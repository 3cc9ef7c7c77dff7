//go:build !windows

package diagnose

import "strings"

// consoleSection reports the locale the terminal advertises. Unix
// terminals are UTF-8 in practice; a bare "C" locale is the one setup
// that still garbles Japanese names.
func consoleSection(getenv func(string) string) (Section, []string) {
	locale := getenv("LC_ALL")
	if locale == "" {
		locale = getenv("LC_CTYPE")
	}
	if locale == "" {
		locale = getenv("LANG")
	}

	value := locale
	if value == "" {
		value = "(not set)"
	}
	section := Section{
		Title:  "Console Locale",
		Checks: []Check{{Name: "Locale", Value: value}},
	}

	var issues []string
	lower := strings.ToLower(locale)
	if locale != "" && !strings.Contains(lower, "utf-8") && !strings.Contains(lower, "utf8") {
		issues = append(issues,
			"! Locale does not advertise UTF-8.",
			"  Fix: export LANG=C.UTF-8 or another UTF-8 locale.")
	}
	return section, issues
}
