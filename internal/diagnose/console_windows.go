//go:build windows

package diagnose

import (
	"fmt"
	"strconv"
	"syscall"
)

var (
	kernel32               = syscall.NewLazyDLL("kernel32.dll")
	procGetConsoleCP       = kernel32.NewProc("GetConsoleCP")
	procGetConsoleOutputCP = kernel32.NewProc("GetConsoleOutputCP")
)

const utf8CodePage = 65001

// consoleSection reads the active console code pages. A zero return
// means no console is attached, which happens under service hosts and
// some IDE terminals.
func consoleSection(_ func(string) string) (Section, []string) {
	in, _, _ := procGetConsoleCP.Call()
	out, _, _ := procGetConsoleOutputCP.Call()

	section := Section{
		Title: "Console Code Pages",
		Checks: []Check{
			{Name: "Input code page", Value: codePageString(in)},
			{Name: "Output code page", Value: codePageString(out)},
		},
	}
	var issues []string
	if out != 0 && out != utf8CodePage {
		issues = append(issues,
			fmt.Sprintf("! Console output is not UTF-8 (code page %d).", out),
			"  Fix: run 'chcp 65001' or start the tools from the launcher.")
	}
	return section, issues
}

func codePageString(cp uintptr) string {
	if cp == 0 {
		return "(no console)"
	}
	s := strconv.FormatUint(uint64(cp), 10)
	if cp == utf8CodePage {
		s += " (UTF-8)"
	}
	return s
}
