//go:build !windows

package launcher

// enableConsoleUTF8 is a no-op on Unix systems; terminals there are
// already UTF-8 and there is no code page to switch.
func enableConsoleUTF8() error {
	return nil
}

// defaultInterpreter names the delegate interpreter for Unix systems.
func defaultInterpreter() string {
	return "python3"
}
