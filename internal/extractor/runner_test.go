package extractor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix-only test")
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunnerScriptWritesData(t *testing.T) {
	requireUnix(t)
	out := t.TempDir()
	script := writeScript(t, t.TempDir(), "fake.py",
		"echo \"encoding=$PYTHONIOENCODING\"\nprintf '[{}]' > data.json\n")

	var console bytes.Buffer
	r := &Runner{OutputDir: out, Interpreter: "/bin/sh", Stdout: &console, Stderr: &console}
	res, err := r.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.DataPath != filepath.Join(out, "data.json") {
		t.Fatalf("data path = %q", res.DataPath)
	}
	if res.SizeMB <= 0 {
		t.Fatalf("size = %f", res.SizeMB)
	}
	// The UTF-8 stdio override must reach the child.
	if !strings.Contains(console.String(), "encoding=utf-8:replace") {
		t.Fatalf("child env missing override: %q", console.String())
	}
}

func TestRunnerReportsMissingData(t *testing.T) {
	requireUnix(t)
	r := &Runner{OutputDir: t.TempDir(), Interpreter: "/bin/sh", Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	script := writeScript(t, t.TempDir(), "noop.py", "exit 0\n")
	if _, err := r.Run(context.Background(), script); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestRunnerPropagatesExitFailure(t *testing.T) {
	requireUnix(t)
	r := &Runner{OutputDir: t.TempDir(), Interpreter: "/bin/sh", Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	script := writeScript(t, t.TempDir(), "boom.py", "exit 2\n")
	_, err := r.Run(context.Background(), script)
	if err == nil || errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want exit failure", err)
	}
}

func TestRunnerRejectsUnknownType(t *testing.T) {
	r := &Runner{OutputDir: t.TempDir()}
	if _, err := r.Run(context.Background(), "extractor.txt"); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
}

func TestVerifyWithoutRunning(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{OutputDir: dir}
	if _, err := r.Verify(); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte("[]"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := r.Verify()
	if err != nil || res.SizeMB <= 0 {
		t.Fatalf("verify = %+v, err %v", res, err)
	}
}

func TestMergeEnvReplacesInPlace(t *testing.T) {
	base := []string{"A=1", "PYTHONIOENCODING=ascii", "B=2"}
	got := mergeEnv(base, map[string]string{"PYTHONIOENCODING": "utf-8:replace", "NEW": "x"})
	if len(got) != 4 {
		t.Fatalf("merged = %v", got)
	}
	if got[1] != "PYTHONIOENCODING=utf-8:replace" {
		t.Fatalf("override not applied in place: %v", got)
	}
	found := false
	for _, kv := range got {
		if kv == "NEW=x" {
			found = true
		}
		if kv == "PYTHONIOENCODING=ascii" {
			t.Fatalf("old value survived: %v", got)
		}
	}
	if !found {
		t.Fatalf("new key missing: %v", got)
	}
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"anything\n", false},
		{"", false}, // EOF without input declines
	}
	for _, tc := range cases {
		var out bytes.Buffer
		if got := Confirm(strings.NewReader(tc.input), &out); got != tc.want {
			t.Fatalf("Confirm(%q) = %v, want %v", tc.input, got, tc.want)
		}
		if !strings.Contains(out.String(), "Ready to extract?") {
			t.Fatalf("prompt missing: %q", out.String())
		}
	}
}

func TestPreflightNoticeMentionsVeteranList(t *testing.T) {
	var out bytes.Buffer
	PreflightNotice(&out)
	if !strings.Contains(out.String(), "VETERAN LIST") {
		t.Fatalf("notice = %q", out.String())
	}
}
