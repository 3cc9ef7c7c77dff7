// Package launcher wraps a single run of the Python-side encoding
// diagnostic so it can be started from a double-clicked console window.
// It switches the console to UTF-8, announces what it is doing, hands
// control to the external interpreter and, when the run fails, keeps the
// window open until the user acknowledges the hint text.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// DefaultScript is the delegate script handed to the interpreter.
const DefaultScript = "diagnose_encoding.py"

const (
	announceLine = "Running encoding diagnostic..."
	pausePrompt  = "Press Enter to close this window..."
)

// Hint lines shown after a failed delegate run. The text covers both
// causes on purpose: the launcher cannot tell a missing interpreter from
// a script that ran and failed.
const (
	hintMissing = "If you see an error above, Python 3 may not be installed"
	hintPath    = "or may not be on your PATH. Install it and run this again."
)

// ErrDelegateFailed reports that the diagnostic run exited non-zero or
// could not be started at all.
var ErrDelegateFailed = errors.New("encoding diagnostic failed")

// Launcher runs the diagnostic delegate once. The zero value is not
// ready to use; construct it with New. Field overrides exist for tests
// and for embedding into the main CLI.
type Launcher struct {
	Interpreter string    // delegate interpreter; empty means the platform default
	Script      string    // delegate script; empty means DefaultScript
	Stdout      io.Writer // defaults to os.Stdout
	Stdin       io.Reader // acknowledgment source; defaults to os.Stdin
}

// New returns a Launcher bound to the OS stdio and the platform default
// interpreter.
func New() *Launcher {
	return &Launcher{Stdout: os.Stdout, Stdin: os.Stdin}
}

func (l *Launcher) out() io.Writer {
	if l.Stdout != nil {
		return l.Stdout
	}
	return os.Stdout
}

func (l *Launcher) in() io.Reader {
	if l.Stdin != nil {
		return l.Stdin
	}
	return os.Stdin
}

// Run performs the launch sequence: configure the console, announce,
// invoke the delegate and block until it exits. On a zero exit it
// returns nil immediately. On any failure it prints the hint lines,
// waits for one keypress and then returns an error wrapping
// ErrDelegateFailed. Run never retries.
func (l *Launcher) Run() error {
	// Encoding setup is best effort and never stops the delegate run.
	_ = enableConsoleUTF8()

	_, _ = fmt.Fprintln(l.out(), announceLine)

	interp := l.Interpreter
	if interp == "" {
		interp = defaultInterpreter()
	}
	script := l.Script
	if script == "" {
		script = DefaultScript
	}

	// #nosec G204
	cmd := exec.Command(interp, script)
	cmd.Stdout = l.out()
	cmd.Stderr = os.Stderr
	cmd.Stdin = l.in()

	if err := cmd.Run(); err != nil {
		l.pauseWithHints()
		return fmt.Errorf("%w: %v", ErrDelegateFailed, err)
	}
	return nil
}

// pauseWithHints prints the failure guidance and blocks for a single
// acknowledgment byte. EOF on stdin releases the wait as well, so a
// non-interactive caller never hangs here.
func (l *Launcher) pauseWithHints() {
	w := l.out()
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, hintMissing)
	_, _ = fmt.Fprintln(w, hintPath)
	_, _ = fmt.Fprint(w, pausePrompt)

	var buf [1]byte
	_, _ = l.in().Read(buf[:])
	_, _ = fmt.Fprintln(w)
}
