package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TheCing/uma-parent-viewer/internal/textdata"
)

func writeTOML(t *testing.T, data string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "upv.toml")
	if err := os.WriteFile(file, []byte(data), 0o644); err != nil {
		t.Fatalf("write toml: %v", err)
	}
	return file
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.DataDir != "data" || cfg.OutputDir != "." {
		t.Fatalf("unexpected dirs: %+v", cfg)
	}
	if cfg.TextData.URL != textdata.DefaultURL {
		t.Fatalf("textdata url = %q", cfg.TextData.URL)
	}
	if cfg.TextData.Timeout() != 60*time.Second {
		t.Fatalf("timeout = %v", cfg.TextData.Timeout())
	}
	if cfg.Journal.DSN != "upv.db" || cfg.Journal.RetentionDays != 30 {
		t.Fatalf("journal = %+v", cfg.Journal)
	}
	if cfg.View.Listen != "127.0.0.1:8765" || cfg.View.BasePath != "/" {
		t.Fatalf("view = %+v", cfg.View)
	}
	if cfg.Log.Level != "info" || cfg.Log.File.Dir != "logs" {
		t.Fatalf("log = %+v", cfg.Log)
	}
}

func TestLoadFull(t *testing.T) {
	file := writeTOML(t, `
data_dir = "tables"
output_dir = "out"
interpreter = "py"

[textdata]
url = "https://example.test/text_data.json"
timeout_seconds = 5

[extractor]
extra_roots = ["/mnt/games"]
auto_confirm = true

[journal]
dsn = "sqlite:///tmp/journal.db"
retention_days = 7

[log]
level = "debug"
[log.file]
dir = "logdir"
max_size_mb = 5

[view]
listen = "0.0.0.0:9000"
base_path = "/uma"
`)
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "tables" || cfg.OutputDir != "out" || cfg.Interpreter != "py" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.TextData.URL != "https://example.test/text_data.json" || cfg.TextData.Timeout() != 5*time.Second {
		t.Fatalf("textdata = %+v", cfg.TextData)
	}
	if len(cfg.Extractor.ExtraRoots) != 1 || cfg.Extractor.ExtraRoots[0] != "/mnt/games" {
		t.Fatalf("extractor = %+v", cfg.Extractor)
	}
	if !cfg.Extractor.AutoConfirm {
		t.Fatalf("auto_confirm not read")
	}
	if cfg.Journal.DSN != "sqlite:///tmp/journal.db" || cfg.Journal.RetentionDays != 7 {
		t.Fatalf("journal = %+v", cfg.Journal)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File.Dir != "logdir" || cfg.Log.File.MaxSizeMB != 5 {
		t.Fatalf("log = %+v", cfg.Log)
	}
	if cfg.View.Listen != "0.0.0.0:9000" || cfg.View.BasePath != "/uma" {
		t.Fatalf("view = %+v", cfg.View)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	file := writeTOML(t, `
data_dir = "tables"

[view]
base_path = "uma"
`)
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "tables" {
		t.Fatalf("data_dir = %q", cfg.DataDir)
	}
	// Untouched settings keep their defaults.
	if cfg.TextData.URL != textdata.DefaultURL || cfg.Journal.RetentionDays != 30 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	// A bare base path is normalized to start with a slash.
	if cfg.View.BasePath != "/uma" {
		t.Fatalf("base_path = %q", cfg.View.BasePath)
	}
	if cfg.View.Listen != "127.0.0.1:8765" {
		t.Fatalf("listen = %q", cfg.View.Listen)
	}
}

func TestLoadNormalizesTimeout(t *testing.T) {
	file := writeTOML(t, `
[textdata]
timeout_seconds = 0
`)
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TextData.Timeout() != 60*time.Second {
		t.Fatalf("timeout = %v", cfg.TextData.Timeout())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadBadTOML(t *testing.T) {
	file := writeTOML(t, `data_dir = [unclosed`)
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	// No file anywhere: the defaults apply.
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	// upv.toml in the working directory is picked up implicitly.
	if err := os.WriteFile(DefaultFileName, []byte(`data_dir = "implicit"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = LoadOrDefault("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "implicit" {
		t.Fatalf("implicit file ignored: %+v", cfg)
	}

	// An explicit path that does not exist is an error, not a fallback.
	if _, err := LoadOrDefault(filepath.Join(dir, "nope.toml")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}
