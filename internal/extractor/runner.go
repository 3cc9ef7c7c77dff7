package extractor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoData reports that the extractor exited without writing data.json.
var ErrNoData = errors.New("data.json was not created")

// Result describes a successful extraction.
type Result struct {
	DataPath string
	SizeMB   float64
}

// Runner executes a located extractor and verifies its output.
type Runner struct {
	// OutputDir is the working directory for the extractor; data.json
	// lands here.
	OutputDir string
	// Interpreter runs .py extractors. Defaults to the platform Python.
	Interpreter string
	// Stdout and Stderr receive the extractor's own output. A tee into
	// the tool log goes here too.
	Stdout io.Writer
	Stderr io.Writer
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Run starts the extractor found at path and blocks until it exits.
// PyInstaller bundles and bare scripts both inherit a UTF-8 stdio
// encoding so Japanese names survive Windows consoles.
func (r *Runner) Run(ctx context.Context, path string) (Result, error) {
	var cmd *exec.Cmd
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exe":
		// #nosec G204
		cmd = exec.CommandContext(ctx, path)
	case ".py":
		interp := r.Interpreter
		if interp == "" {
			interp = defaultInterpreter()
		}
		// #nosec G204
		cmd = exec.CommandContext(ctx, interp, path)
	default:
		return Result{}, fmt.Errorf("unknown extractor type: %s", path)
	}

	cmd.Dir = r.OutputDir
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	cmd.Env = mergeEnv(os.Environ(), map[string]string{
		"PYTHONIOENCODING": "utf-8:replace",
	})

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("run extractor: %w", err)
	}
	return r.Verify()
}

// Verify checks that data.json exists in the output directory and
// reports its size.
func (r *Runner) Verify() (Result, error) {
	dataPath := filepath.Join(r.OutputDir, "data.json")
	fi, err := os.Stat(dataPath)
	if err != nil {
		return Result{}, ErrNoData
	}
	return Result{
		DataPath: dataPath,
		SizeMB:   float64(fi.Size()) / (1024 * 1024),
	}, nil
}

// mergeEnv overlays overrides onto a "K=V" environment list, replacing
// existing keys in place and appending new ones.
func mergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	seen := map[string]bool{}
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			out = append(out, kv)
			continue
		}
		k := kv[:i]
		if v, ok := overrides[k]; ok {
			out = append(out, k+"="+v)
			seen[k] = true
			continue
		}
		out = append(out, kv)
	}
	for k, v := range overrides {
		if !seen[k] {
			out = append(out, k+"="+v)
		}
	}
	return out
}

// PreflightNotice reminds the user of the in-game state the extractor
// needs before it attaches.
func PreflightNotice(w io.Writer) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "IMPORTANT: Before continuing, make sure:")
	fmt.Fprintln(w, "  1. Uma Musume Pretty Derby is RUNNING")
	fmt.Fprintln(w, "  2. You are on the VETERAN LIST page (Enhance -> List)")
	fmt.Fprintln(w, "  3. The page has FULLY LOADED")
	fmt.Fprintln(w, line)
}

// Confirm prompts for a go-ahead and reads one line. Empty input and
// y/yes accept; anything else declines.
func Confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "\nReady to extract? [Y/n]: ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	response := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return response == "" || response == "y" || response == "yes"
}
