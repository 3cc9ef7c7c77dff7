package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/TheCing/uma-parent-viewer/internal/journal"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a Unix shell")
	}
}

// testEnv is a workspace whose config keeps every path inside a temp
// dir, so runs never touch the package directory.
type testEnv struct {
	dir   string
	flags *GlobalFlags
	out   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`
data_dir = %q
output_dir = %q
interpreter = "/bin/sh"

[journal]
dsn = %q

[log]
level = "error"

[log.file]
dir = %q
`,
		filepath.Join(dir, "data"),
		dir,
		filepath.Join(dir, "upv.db"),
		filepath.Join(dir, "logs"))
	path := filepath.Join(dir, "upv.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &testEnv{dir: dir, flags: &GlobalFlags{ConfigPath: path}, out: &bytes.Buffer{}}
}

func (e *testEnv) command(stdin string) *command {
	return &command{flags: e.flags, out: e.out, in: strings.NewReader(stdin)}
}

func (e *testEnv) write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func (e *testEnv) lastRun(t *testing.T, tool string) journal.Run {
	t.Helper()
	j, err := journal.Open(filepath.Join(e.dir, "upv.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer func() { _ = j.Close() }()
	runs, err := j.Recent(context.Background(), tool, 1)
	if err != nil {
		t.Fatalf("recent %s runs: %v", tool, err)
	}
	if len(runs) != 1 {
		t.Fatalf("want one %s run, got %d", tool, len(runs))
	}
	return runs[0]
}

func TestInitWritesStarterConfig(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "fresh.toml")
	c := env.command("")
	if err := c.Init(InitFlags{Kind: "batch", Output: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !strings.Contains(env.out.String(), "Wrote "+path) {
		t.Fatalf("confirmation missing:\n%s", env.out.String())
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read generated config: %v", err)
	}
	if !strings.Contains(string(body), "auto_confirm = true") {
		t.Fatalf("batch template content missing:\n%s", body)
	}

	// A second init must refuse to clobber the file without --force.
	if err := c.Init(InitFlags{Output: path}); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("Init overwrite: %v", err)
	}
	if err := c.Init(InitFlags{Output: path, Force: true}); err != nil {
		t.Fatalf("Init --force: %v", err)
	}
}

func TestInitUnknownKind(t *testing.T) {
	env := newTestEnv(t)
	c := env.command("")
	err := c.Init(InitFlags{Kind: "frobnicate", Output: filepath.Join(env.dir, "x.toml")})
	if err == nil || !strings.Contains(err.Error(), "unknown template kind") {
		t.Fatalf("Init: %v", err)
	}
}

func TestDiagnoseReportsAndJournals(t *testing.T) {
	env := newTestEnv(t)
	c := env.command("")
	if err := c.Diagnose(); err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(env.out.String(), "ENCODING DIAGNOSTIC") {
		t.Fatalf("missing report header in output:\n%s", env.out.String())
	}
	run := env.lastRun(t, "diagnose")
	if run.Status != journal.StatusOK {
		t.Fatalf("journal status = %q, want ok", run.Status)
	}
	if !run.FinishedAt.Valid {
		t.Fatalf("journal run was not finished")
	}
	if !run.Detail.Valid || !strings.Contains(run.Detail.String, "issues") {
		t.Fatalf("journal detail = %+v", run.Detail)
	}
}

func TestExtractCancelledByPrompt(t *testing.T) {
	env := newTestEnv(t)
	c := env.command("n\n")
	err := c.Extract(ExtractFlags{})
	if err == nil || err.Error() != "extraction cancelled" {
		t.Fatalf("Extract: %v, want cancellation", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "IMPORTANT: Before continuing") {
		t.Fatalf("preflight notice not shown:\n%s", out)
	}
	if !strings.Contains(out, "Ready to extract?") {
		t.Fatalf("prompt not shown:\n%s", out)
	}
}

func TestExtractRunsCachedExtractor(t *testing.T) {
	requireUnix(t)
	env := newTestEnv(t)
	script := env.write(t, filepath.Join("tool", "extract_umas.py"),
		"echo extracting veterans\nprintf '[]' > data.json\n")
	env.write(t, ".umaextractor_path", script)

	c := env.command("")
	if err := c.Extract(ExtractFlags{Yes: true}); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "extracting veterans") {
		t.Fatalf("extractor stdout not forwarded:\n%s", out)
	}
	if !strings.Contains(out, "Veteran data written to") {
		t.Fatalf("missing result line:\n%s", out)
	}
	if !strings.Contains(out, "Next step: run 'upv enrich'") {
		t.Fatalf("missing next-step hint:\n%s", out)
	}
	data, err := os.ReadFile(filepath.Join(env.dir, "data.json"))
	if err != nil {
		t.Fatalf("data.json not written: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("data.json = %q", data)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "logs", "extract.log")); err != nil {
		t.Fatalf("tool log not captured: %v", err)
	}
	run := env.lastRun(t, "extract")
	if run.Status != journal.StatusOK {
		t.Fatalf("journal status = %q, want ok", run.Status)
	}
	if !strings.Contains(run.Detail.String, "data.json") {
		t.Fatalf("journal detail = %+v", run.Detail)
	}
}

func TestExtractAutoConfirmSkipsPrompt(t *testing.T) {
	requireUnix(t)
	env := newTestEnv(t)
	script := env.write(t, filepath.Join("tool", "extract_umas.py"),
		"printf '[]' > data.json\n")
	env.write(t, ".umaextractor_path", script)
	extra := "\n[extractor]\nauto_confirm = true\n"
	cfgPath := filepath.Join(env.dir, "upv.toml")
	prev, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if err := os.WriteFile(cfgPath, append(prev, []byte(extra)...), 0o644); err != nil {
		t.Fatalf("extend config: %v", err)
	}

	// No --yes and no stdin answer: auto_confirm has to carry it.
	c := env.command("")
	if err := c.Extract(ExtractFlags{}); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if strings.Contains(env.out.String(), "Ready to extract?") {
		t.Fatalf("prompt shown despite auto_confirm:\n%s", env.out.String())
	}
}

func TestGenerateWritesReferenceFiles(t *testing.T) {
	env := newTestEnv(t)
	dump := `{
		"147": {"210": "Runner", "211": "Stamina"},
		"36": {"1088": "Japan Cup"},
		"14": {"100101": "Special Week"}
	}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(dump))
	}))
	defer ts.Close()

	c := env.command("")
	if err := c.Generate(GenerateFlags{URL: ts.URL}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "sparknames_global.json: 2 entries (1 corrected)") {
		t.Fatalf("spark report missing:\n%s", out)
	}
	if !strings.Contains(out, "Generated 6 reference files") {
		t.Fatalf("summary missing:\n%s", out)
	}
	sparks, err := os.ReadFile(filepath.Join(env.dir, "data", "sparknames_global.json"))
	if err != nil {
		t.Fatalf("sparknames not written: %v", err)
	}
	if !strings.Contains(string(sparks), "Front Runner") {
		t.Fatalf("correction not applied: %s", sparks)
	}
	run := env.lastRun(t, "generate")
	if run.Status != journal.StatusOK {
		t.Fatalf("journal status = %q, want ok", run.Status)
	}
	if !strings.Contains(run.Detail.String, "6 files") {
		t.Fatalf("journal detail = %+v", run.Detail)
	}
}

func TestGenerateServerErrorJournalsFailure(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := env.command("")
	err := c.Generate(GenerateFlags{URL: ts.URL})
	if err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("Generate: %v, want status error", err)
	}
	run := env.lastRun(t, "generate")
	if run.Status != journal.StatusError {
		t.Fatalf("journal status = %q, want error", run.Status)
	}
	if !run.Error.Valid || !strings.Contains(run.Error.String, "unexpected status") {
		t.Fatalf("journal error = %+v", run.Error)
	}
}

func TestEnrichEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, filepath.Join("data", "sparknames_global.json"), `{"210": "Front Runner"}`)
	env.write(t, "data.json", `[{"card_id": 100601, "factor_id_array": [210]}]`)

	c := env.command("")
	if err := c.Enrich(nil); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{
		"Enriched 1 veterans",
		"--- Sample enriched veteran ---",
		"card_id: 100601",
		"No localization issues found.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	enriched, err := os.ReadFile(filepath.Join(env.dir, EnrichedFileName))
	if err != nil {
		t.Fatalf("enriched output not written: %v", err)
	}
	for _, want := range []string{"spark_array_enriched", "Front Runner", "100601"} {
		if !strings.Contains(string(enriched), want) {
			t.Fatalf("enriched output missing %q:\n%s", want, enriched)
		}
	}
	run := env.lastRun(t, "enrich")
	if run.Status != journal.StatusOK {
		t.Fatalf("journal status = %q, want ok", run.Status)
	}
	if !strings.Contains(run.Detail.String, "1 veterans") {
		t.Fatalf("journal detail = %+v", run.Detail)
	}
}

func TestEnrichExplicitPaths(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, filepath.Join("data", "sparknames_global.json"), `{"210": "Front Runner"}`)
	input := env.write(t, "elsewhere.json", `[{"factor_id_array": [210]}]`)
	output := filepath.Join(env.dir, "picked.json")

	c := env.command("")
	if err := c.Enrich([]string{input, output}); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("explicit output not written: %v", err)
	}
}

func TestEnrichReportsTerminologyIssues(t *testing.T) {
	env := newTestEnv(t)
	// Upstream table still carries the community term; the check runs
	// over the enriched output and must flag it.
	env.write(t, filepath.Join("data", "sparknames_global.json"), `{"9002": "Wisdom"}`)
	env.write(t, "data.json", `[{"factor_id_array": [9002]}]`)

	c := env.command("")
	if err := c.Enrich(nil); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{
		"Found 1 localization issue(s)",
		"'Wisdom' -> should be 'Wit'",
		"Global terminology reference:",
		"Late Surger",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEnrichWithoutExtractOutput(t *testing.T) {
	env := newTestEnv(t)
	c := env.command("")
	err := c.Enrich(nil)
	if err == nil || !strings.Contains(err.Error(), "run 'upv extract' first") {
		t.Fatalf("Enrich: %v, want missing-input hint", err)
	}
	run := env.lastRun(t, "enrich")
	if run.Status != journal.StatusError {
		t.Fatalf("journal status = %q, want error", run.Status)
	}
}

func TestEnrichWithoutReferenceData(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "data.json", `[{"factor_id_array": [2101]}]`)
	c := env.command("")
	err := c.Enrich(nil)
	if err == nil || !strings.Contains(err.Error(), "run 'upv generate' first") {
		t.Fatalf("Enrich: %v, want missing-reference hint", err)
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := newTestEnv(t)
	c := env.command("")
	if err := c.History(HistoryFlags{Limit: 10}); err != nil {
		t.Fatalf("History: %v", err)
	}
	if !strings.Contains(env.out.String(), "No runs recorded yet.") {
		t.Fatalf("empty notice missing:\n%s", env.out.String())
	}
}

func TestHistoryListsRuns(t *testing.T) {
	env := newTestEnv(t)
	c := env.command("")
	if err := c.Diagnose(); err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	env.out.Reset()

	if err := c.History(HistoryFlags{Limit: 10}); err != nil {
		t.Fatalf("History: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "diagnose") || !strings.Contains(out, "ok") {
		t.Fatalf("run line missing:\n%s", out)
	}

	env.out.Reset()
	if err := c.History(HistoryFlags{Limit: 10, JSON: true}); err != nil {
		t.Fatalf("History --json: %v", err)
	}
	var runs []journal.Run
	if err := json.Unmarshal(env.out.Bytes(), &runs); err != nil {
		t.Fatalf("decode --json output: %v\n%s", err, env.out.String())
	}
	if len(runs) != 1 || runs[0].Tool != "diagnose" {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestHistoryFiltersByTool(t *testing.T) {
	env := newTestEnv(t)
	c := env.command("")
	if err := c.Diagnose(); err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	env.out.Reset()
	if err := c.History(HistoryFlags{Tool: "extract", Limit: 10}); err != nil {
		t.Fatalf("History: %v", err)
	}
	if !strings.Contains(env.out.String(), "No runs recorded yet.") {
		t.Fatalf("tool filter leaked other runs:\n%s", env.out.String())
	}
}

func TestViewBadListenAddress(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, EnrichedFileName, `[]`)
	c := env.command("")
	err := c.View(ViewFlags{Listen: "127.0.0.1:notaport"}, nil)
	if err == nil {
		t.Fatalf("expected listen error")
	}
	run := env.lastRun(t, "view")
	if run.Status != journal.StatusError {
		t.Fatalf("journal status = %q, want error", run.Status)
	}
}
