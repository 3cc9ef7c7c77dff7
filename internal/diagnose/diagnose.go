// Package diagnose builds the encoding diagnostic report: what the
// console, locale, and paths look like from inside the process, plus
// probe strings that make rendering problems visible at a glance.
package diagnose

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Check is one "name: value" line in a report section.
type Check struct {
	Name  string
	Value string
}

// Section groups related checks under a bracketed heading.
type Section struct {
	Title  string
	Checks []Check
	Notes  []string
}

// Report is the full diagnostic output.
type Report struct {
	Sections []Section
	// Issues holds recommendation lines; empty means nothing suspicious
	// turned up.
	Issues []string
}

// HasIssues reports whether any recommendation was raised.
func (r Report) HasIssues() bool { return len(r.Issues) > 0 }

// probeStrings are printed verbatim so the user can see which scripts
// their console renders.
var probeStrings = []Check{
	{Name: "ASCII", Value: "Hello World"},
	{Name: "Japanese", Value: "こんにちは"},
	{Name: "Chinese", Value: "你好世界"},
	{Name: "Korean", Value: "안녕하세요"},
	{Name: "Emoji", Value: "🐴✨"},
}

// envVars are the variables that influence Python child processes; the
// extract step launches those, so they belong in the report.
var envVars = []string{"PYTHONIOENCODING", "LANG", "LC_ALL", "LC_CTYPE", "PYTHONUTF8"}

// Collector assembles a Report. The zero value reads from the real
// process environment.
type Collector struct {
	Getenv  func(string) string
	Home    string
	WorkDir string
}

func (c *Collector) getenv(key string) string {
	if c.Getenv != nil {
		return c.Getenv(key)
	}
	return os.Getenv(key)
}

func (c *Collector) home() string {
	if c.Home != "" {
		return c.Home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "(unknown)"
	}
	return home
}

func (c *Collector) workDir() string {
	if c.WorkDir != "" {
		return c.WorkDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return wd
}

// Report runs every check and collects the recommendations.
func (c *Collector) Report() Report {
	var rep Report

	exe, err := os.Executable()
	if err != nil {
		exe = "(unknown)"
	}
	rep.Sections = append(rep.Sections, Section{
		Title: "Runtime Info",
		Checks: []Check{
			{Name: "Go version", Value: runtime.Version()},
			{Name: "Platform", Value: runtime.GOOS + "/" + runtime.GOARCH},
			{Name: "Executable", Value: exe},
		},
	})

	home := c.home()
	wd := c.workDir()
	paths := Section{
		Title: "User Paths",
		Checks: []Check{
			{Name: "Home directory", Value: home},
			{Name: "Current directory", Value: wd},
			{Name: "Executable directory", Value: filepath.Dir(exe)},
		},
	}
	nonASCII := false
	for _, p := range []string{home, wd} {
		if hasNonASCII(p) {
			nonASCII = true
			paths.Notes = append(paths.Notes, "** Non-ASCII characters detected in: "+p)
		}
	}
	if !nonASCII {
		paths.Notes = append(paths.Notes, "(All paths are ASCII-safe)")
	}
	rep.Sections = append(rep.Sections, paths)

	console, consoleIssues := consoleSection(c.getenv)
	rep.Sections = append(rep.Sections, console)
	rep.Issues = append(rep.Issues, consoleIssues...)

	env := Section{Title: "Relevant Environment Variables"}
	for _, key := range envVars {
		value := c.getenv(key)
		if value == "" {
			value = "(not set)"
		}
		env.Checks = append(env.Checks, Check{Name: key, Value: value})
	}
	rep.Sections = append(rep.Sections, env)

	rep.Sections = append(rep.Sections, Section{
		Title:  "Unicode Output Test",
		Checks: probeStrings,
	})

	if nonASCII {
		rep.Issues = append(rep.Issues,
			"! Your user path contains non-ASCII characters.",
			"  This is usually fine, but some tools may have issues.")
	}
	if c.getenv("PYTHONIOENCODING") == "" {
		rep.Issues = append(rep.Issues,
			"! PYTHONIOENCODING is not set.",
			"  Consider adding: PYTHONIOENCODING=utf-8:replace")
	}
	return rep
}

// Render writes the report in the banner-and-sections layout users are
// asked to copy into bug reports.
func (r Report) Render(w io.Writer) {
	banner := strings.Repeat("=", 60)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "  UMA PARENT VIEWER - ENCODING DIAGNOSTIC")
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w)

	for _, section := range r.Sections {
		fmt.Fprintf(w, "[%s]\n", section.Title)
		for _, check := range section.Checks {
			fmt.Fprintf(w, "  %s: %s\n", check.Name, check.Value)
		}
		for _, note := range section.Notes {
			fmt.Fprintf(w, "  %s\n", note)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "[Recommendations]")
	if len(r.Issues) == 0 {
		fmt.Fprintln(w, "  No obvious encoding issues detected!")
	}
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  %s\n", issue)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "  Copy this output and share it for troubleshooting.")
	fmt.Fprintln(w, banner)
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}
