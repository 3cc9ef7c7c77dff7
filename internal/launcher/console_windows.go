//go:build windows

package launcher

import "syscall"

var (
	kernel32               = syscall.NewLazyDLL("kernel32.dll")
	procSetConsoleCP       = kernel32.NewProc("SetConsoleCP")
	procSetConsoleOutputCP = kernel32.NewProc("SetConsoleOutputCP")
)

// UTF-8 code page, the "chcp 65001" equivalent.
const utf8CodePage = 65001

// enableConsoleUTF8 switches the attached console's input and output
// code pages to UTF-8. It fails when no console is attached, which
// callers treat as non-fatal.
func enableConsoleUTF8() error {
	if ret, _, err := procSetConsoleCP.Call(uintptr(utf8CodePage)); ret == 0 {
		return err
	}
	if ret, _, err := procSetConsoleOutputCP.Call(uintptr(utf8CodePage)); ret == 0 {
		return err
	}
	return nil
}

// defaultInterpreter names the delegate interpreter for Windows systems.
// The python.org installer registers "python", not "python3".
func defaultInterpreter() string {
	return "python"
}
