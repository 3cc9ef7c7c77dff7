package main

import (
	"fmt"
	"io"

	"github.com/TheCing/uma-parent-viewer/internal/enrich"
)

// maxTermIssues caps the console listing so a big collection stays
// readable; the summary line still carries the full count.
const maxTermIssues = 5

// writeSampleVeteran prints the first record's headline fields so the
// user can eyeball the enrichment before opening the output file.
func writeSampleVeteran(w io.Writer, v map[string]any) {
	_, _ = fmt.Fprintln(w, "\n--- Sample enriched veteran ---")
	for _, key := range []string{"card_id", "chara_name_en", "costume_name_en", "card_name_en"} {
		val, ok := v[key]
		if !ok {
			val = "N/A"
		}
		_, _ = fmt.Fprintf(w, "  %s: %v\n", key, val)
	}

	skills, _ := v["skill_array"].([]any)
	total := 0
	var named []string
	for _, elem := range skills {
		skill, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		total++
		name, _ := skill["skill_name_en"].(string)
		if name == "" {
			continue
		}
		if lvl, ok := skill["level"]; ok {
			name = fmt.Sprintf("%s (Lv.%v)", name, lvl)
		}
		named = append(named, name)
	}
	if len(named) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "  skills with names: %d/%d\n", len(named), total)
	if len(named) > 3 {
		named = named[:3]
	}
	for _, line := range named {
		_, _ = fmt.Fprintf(w, "    - %s\n", line)
	}
}

// writeTerminologyReport lists upstream localization issues alongside
// the Global reference table, or prints the all-clear line.
func writeTerminologyReport(w io.Writer, issues []enrich.TermIssue) {
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, "No localization issues found.")
		return
	}
	_, _ = fmt.Fprintf(w, "Found %d localization issue(s) from upstream data:\n", len(issues))
	shown := issues
	if len(shown) > maxTermIssues {
		shown = shown[:maxTermIssues]
	}
	for _, issue := range shown {
		_, _ = fmt.Fprintf(w, "  %s\n    '%s' -> should be '%s'\n", issue.Field, issue.Found, issue.Expected)
	}
	if rest := len(issues) - len(shown); rest > 0 {
		_, _ = fmt.Fprintf(w, "  ... and %d more\n", rest)
	}
	_, _ = fmt.Fprintln(w, "\nGlobal terminology reference:")
	for _, pair := range enrich.TerminologyReference {
		_, _ = fmt.Fprintf(w, "  %-20s -> %s\n", pair[0], pair[1])
	}
}
