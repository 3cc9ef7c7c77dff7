package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	upv "github.com/TheCing/uma-parent-viewer"
	"github.com/TheCing/uma-parent-viewer/internal/config"
	"github.com/TheCing/uma-parent-viewer/internal/enrich"
	"github.com/TheCing/uma-parent-viewer/internal/extractor"
	"github.com/TheCing/uma-parent-viewer/internal/journal"
	"github.com/TheCing/uma-parent-viewer/internal/metrics"
	"github.com/TheCing/uma-parent-viewer/internal/textdata"
	"github.com/TheCing/uma-parent-viewer/pkg/template"
)

// EnrichedFileName is the pipeline's final output inside the output
// directory; extract writes data.json, enrich rewrites it as this.
const EnrichedFileName = "enriched_data.json"

// command binds the subcommand handlers to their streams. Tests swap
// out and in; the real CLI uses the OS ones from newCommand.
type command struct {
	flags *GlobalFlags
	out   io.Writer
	in    io.Reader
}

func newCommand(flags *GlobalFlags) *command {
	return &command{flags: flags, out: os.Stdout, in: os.Stdin}
}

// toolContext is what a tool run needs: the loaded config, the logger
// and the run recorder.
type toolContext struct {
	cfg config.Config
	log *slog.Logger
	rec *journal.Recorder
}

// setup loads the config and builds the logger and recorder. Every
// subcommand calls it after cobra has parsed the persistent flags.
func (c *command) setup() (*toolContext, error) {
	cfg, err := config.LoadOrDefault(c.flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if c.flags.LogLevel != "" {
		cfg.Log.Level = c.flags.LogLevel
	}
	log := cfg.Log.NewLogger(os.Stderr)
	return &toolContext{cfg: cfg, log: log, rec: journal.NewRecorder(cfg.Journal.DSN, log)}, nil
}

// finishRun closes the journal entry and counts the run outcome.
func finishRun(ctx context.Context, entry *journal.Entry, tool, detail string, err error) {
	entry.Finish(ctx, detail, err)
	status := journal.StatusOK
	if err != nil {
		status = journal.StatusError
	}
	metrics.IncToolRun(tool, status)
}

// Init writes a starter config file. It deliberately skips setup: there
// is no config to load yet and bootstrap must not leave a journal behind.
func (c *command) Init(f InitFlags) error {
	if f.Kind == "" {
		f.Kind = string(template.KindDefault)
	}
	path := f.Output
	if path == "" {
		path = config.DefaultFileName
	}
	if !f.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	text, err := template.NewGenerator().Generate(template.Kind(f.Kind))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(c.out, "Wrote %s (%s). Edit it, then run 'upv generate'.\n", path, f.Kind)
	return nil
}

// Diagnose prints the encoding diagnostic report.
func (c *command) Diagnose() error {
	tc, err := c.setup()
	if err != nil {
		return err
	}
	defer tc.rec.Close()

	ctx := context.Background()
	entry := tc.rec.Begin(ctx, "diagnose")
	report := upv.Diagnose()
	report.Render(c.out)
	finishRun(ctx, entry, "diagnose", fmt.Sprintf("%d issues", len(report.Issues)), nil)
	return nil
}

// Extract locates UmaExtractor and runs it after the preflight prompt.
func (c *command) Extract(f ExtractFlags) error {
	tc, err := c.setup()
	if err != nil {
		return err
	}
	defer tc.rec.Close()

	extractor.PreflightNotice(c.out)
	if !f.Yes && !tc.cfg.Extractor.AutoConfirm {
		if !extractor.Confirm(c.in, c.out) {
			return errors.New("extraction cancelled")
		}
	}

	ctx := context.Background()
	entry := tc.rec.Begin(ctx, "extract")

	loc := &extractor.Locator{BaseDir: tc.cfg.OutputDir, ExtraRoots: tc.cfg.Extractor.ExtraRoots}
	path, err := loc.Find()
	if err != nil {
		finishRun(ctx, entry, "extract", "", err)
		if errors.Is(err, extractor.ErrNotFound) {
			return fmt.Errorf("%w; install it next to this tool or list extra search roots under [extractor] in %s", err, config.DefaultFileName)
		}
		return err
	}
	tc.log.Info("extractor found", "path", path)

	runner := &extractor.Runner{
		OutputDir:   tc.cfg.OutputDir,
		Interpreter: tc.cfg.Interpreter,
		Stdout:      c.out,
		Stderr:      os.Stderr,
	}
	if w := tc.cfg.Log.ToolWriter("extract"); w != nil {
		defer func() { _ = w.Close() }()
		runner.Stdout = io.MultiWriter(c.out, w)
		runner.Stderr = io.MultiWriter(os.Stderr, w)
	}

	res, err := runner.Run(ctx, path)
	if err != nil {
		finishRun(ctx, entry, "extract", "", err)
		return err
	}
	_, _ = fmt.Fprintf(c.out, "\nVeteran data written to %s (%.1f MB)\n", res.DataPath, res.SizeMB)
	_, _ = fmt.Fprintln(c.out, "Next step: run 'upv enrich' to add English names.")
	finishRun(ctx, entry, "extract", fmt.Sprintf("%s (%.1f MB)", res.DataPath, res.SizeMB), nil)
	return nil
}

// Generate downloads the text data dump and writes the reference tables.
func (c *command) Generate(f GenerateFlags) error {
	tc, err := c.setup()
	if err != nil {
		return err
	}
	defer tc.rec.Close()

	ctx := context.Background()
	entry := tc.rec.Begin(ctx, "generate")

	url := tc.cfg.TextData.URL
	if f.URL != "" {
		url = f.URL
	}
	_, _ = fmt.Fprintf(c.out, "Downloading text data from %s\n", url)
	dump, err := textdata.NewClient(url, tc.cfg.TextData.Timeout()).Download(ctx)
	if err != nil {
		finishRun(ctx, entry, "generate", "", err)
		return err
	}

	reports, err := textdata.Generate(dump, tc.cfg.DataDir)
	if err != nil {
		finishRun(ctx, entry, "generate", "", err)
		return err
	}
	total := 0
	for _, r := range reports {
		total += r.Entries
		line := fmt.Sprintf("  %s: %d entries", r.Filename, r.Entries)
		if r.Corrected > 0 {
			line += fmt.Sprintf(" (%d corrected)", r.Corrected)
		}
		_, _ = fmt.Fprintln(c.out, line)
	}
	_, _ = fmt.Fprintf(c.out, "Generated %d reference files in %s\n", len(reports), tc.cfg.DataDir)
	finishRun(ctx, entry, "generate", fmt.Sprintf("%d files, %d entries", len(reports), total), nil)
	return nil
}

// Enrich decorates the extracted records with English names.
func (c *command) Enrich(args []string) error {
	tc, err := c.setup()
	if err != nil {
		return err
	}
	defer tc.rec.Close()

	ctx := context.Background()
	entry := tc.rec.Begin(ctx, "enrich")
	detail, err := c.runEnrich(tc, args)
	finishRun(ctx, entry, "enrich", detail, err)
	return err
}

func (c *command) runEnrich(tc *toolContext, args []string) (string, error) {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		found, ok := enrich.DefaultInputPath(tc.cfg.OutputDir)
		if !ok {
			return "", fmt.Errorf("no data.json found in %s; run 'upv extract' first", tc.cfg.OutputDir)
		}
		input = found
	}
	output := filepath.Join(tc.cfg.OutputDir, EnrichedFileName)
	if len(args) > 1 {
		output = args[1]
	}

	ref, reports := enrich.Load(tc.cfg.DataDir)
	for _, r := range reports {
		if r.Err != nil {
			tc.log.Warn("reference table unavailable", "file", r.Filename, "error", r.Err)
		}
	}
	if ref.Empty() {
		return "", fmt.Errorf("no reference data in %s; run 'upv generate' first", tc.cfg.DataDir)
	}

	veterans, err := enrich.ReadVeteransFile(input)
	if err != nil {
		return "", err
	}
	outcome := enrich.NewEnricher(ref).All(veterans)

	if err := textdata.WriteJSON(output, veterans); err != nil {
		return "", err
	}
	_, _ = fmt.Fprintf(c.out, "Enriched %d veterans (%d gained names, %d with named skills) -> %s\n",
		outcome.Characters, outcome.NameEnriched, outcome.SkillEnriched, output)
	if len(veterans) > 0 {
		writeSampleVeteran(c.out, veterans[0])
	}

	_, _ = fmt.Fprintln(c.out)
	writeTerminologyReport(c.out, enrich.CheckTerminology(veterans))
	return fmt.Sprintf("%d veterans -> %s", outcome.Characters, output), nil
}

// View serves the enriched records until interrupted.
func (c *command) View(f ViewFlags, args []string) error {
	tc, err := c.setup()
	if err != nil {
		return err
	}
	defer tc.rec.Close()

	listen := tc.cfg.View.Listen
	if f.Listen != "" {
		listen = f.Listen
	}
	dataPath := filepath.Join(tc.cfg.OutputDir, EnrichedFileName)
	if len(args) > 0 {
		dataPath = args[0]
	}

	if err := upv.RegisterMetricsDefault(); err != nil {
		tc.log.Warn("metrics registration failed", "error", err)
	}

	ctx := context.Background()
	entry := tc.rec.Begin(ctx, "view")

	snap := upv.NewSnapshot(dataPath, tc.log)
	if err := snap.Load(); err != nil {
		// The viewer can come up first and pick the file up on reload.
		tc.log.Warn("viewer starting without data", "error", err)
	}
	stopWatch, err := snap.Watch(ctx)
	if err != nil {
		finishRun(ctx, entry, "view", "", err)
		return err
	}
	defer stopWatch()

	srv, err := upv.NewViewerServer(listen, tc.cfg.View.BasePath, snap)
	if err != nil {
		finishRun(ctx, entry, "view", "", err)
		return err
	}
	_, _ = fmt.Fprintf(c.out, "Viewing %d veterans on http://%s%s (Ctrl+C to stop)\n",
		snap.Count(), srv.Addr, tc.cfg.View.BasePath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_, _ = fmt.Fprintln(c.out, "Shutting down...")
	err = srv.Close()
	finishRun(ctx, entry, "view", fmt.Sprintf("served %s", srv.Addr), err)
	return err
}

// History lists recent journal runs, purging expired ones first.
func (c *command) History(f HistoryFlags) error {
	tc, err := c.setup()
	if err != nil {
		return err
	}

	j, err := journal.Open(tc.cfg.Journal.DSN)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = j.Close() }()

	ctx := context.Background()
	if days := tc.cfg.Journal.RetentionDays; days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		if n, err := j.PurgeOlderThan(ctx, cutoff); err != nil {
			tc.log.Warn("journal purge failed", "error", err)
		} else if n > 0 {
			tc.log.Debug("journal purged", "runs", n)
		}
	}

	runs, err := j.Recent(ctx, f.Tool, f.Limit)
	if err != nil {
		return err
	}
	if f.JSON {
		printJSON(c.out, runs)
		return nil
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(c.out, "No runs recorded yet.")
		return nil
	}
	for _, r := range runs {
		_, _ = fmt.Fprintln(c.out, formatRun(r))
	}
	return nil
}
