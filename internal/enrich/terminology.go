package enrich

import (
	"fmt"
	"strings"
)

// TermIssue is one non-Global term found in enriched output. Field is
// the path of the offending value inside the records array.
type TermIssue struct {
	Field    string
	Found    string
	Expected string
}

// termRule flags a community term that leaked through correction.
// Exact rules match whole values; otherwise a substring hit counts.
type termRule struct {
	bad   string
	good  string
	exact bool
}

// Substring rules run in order; the Betweener rule must precede any
// future rule that could overlap its replacement.
var termRules = []termRule{
	{bad: "Betweener", good: "Late Surger"},
	{bad: "Runner", good: "Front Runner", exact: true},
	{bad: "Leader", good: "Pace Chaser", exact: true},
	{bad: "Chaser", good: "End Closer", exact: true},
	{bad: "Bad Track Condition", good: "Wet Conditions"},
	{bad: "Hold Your Tail High", good: "Tail Held High"},
	{bad: "Wisdom", good: "Wit"},
	{bad: "Int Bonus", good: "Wit Bonus"},
	{bad: "Int Cap Up", good: "Wit Cap Up"},
}

// TerminologyReference lists the running style corrections shown to the
// user when issues turn up, so the fix is obvious without a wiki trip.
var TerminologyReference = [][2]string{
	{"Runner", "Front Runner"},
	{"Leader", "Pace Chaser"},
	{"Betweener", "Late Surger"},
	{"Chaser", "End Closer"},
	{"Bad Track Condition", "Wet Conditions"},
	{"Wisdom", "Wit"},
}

// CheckTerminology scans every English name field in the enriched
// records for community terms the Global client names differently.
// It returns one issue per offending value.
func CheckTerminology(veterans []map[string]any) []TermIssue {
	var issues []TermIssue
	for i, v := range veterans {
		walkStrings(v, fmt.Sprintf("[%d]", i), func(path, s string) {
			if issue, bad := checkValue(s); bad {
				issue.Field = path
				issues = append(issues, issue)
			}
		})
	}
	return issues
}

// checkValue tests one display string against the term rules.
func checkValue(s string) (TermIssue, bool) {
	for _, rule := range termRules {
		if rule.exact {
			if s == rule.bad {
				return TermIssue{Found: s, Expected: rule.good}, true
			}
			continue
		}
		if strings.Contains(s, rule.bad) {
			return TermIssue{Found: s, Expected: strings.ReplaceAll(s, rule.bad, rule.good)}, true
		}
	}
	return TermIssue{}, false
}

// walkStrings visits every string value stored under a key ending in
// "_en", descending through nested objects and arrays.
func walkStrings(v any, path string, visit func(path, s string)) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			childPath := path + "." + k
			if s, ok := child.(string); ok {
				if strings.HasSuffix(k, "_en") {
					visit(childPath, s)
				}
				continue
			}
			walkStrings(child, childPath, visit)
		}
	case []any:
		for i, child := range node {
			walkStrings(child, fmt.Sprintf("%s[%d]", path, i), visit)
		}
	case []map[string]any:
		for i, child := range node {
			walkStrings(child, fmt.Sprintf("%s[%d]", path, i), visit)
		}
	}
}
