// Package upv exposes the veteran toolchain for embedding: the
// diagnostic launcher, the configuration loader, the enrichment
// engine, the run journal and the viewer server.
package upv

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	cfg "github.com/TheCing/uma-parent-viewer/internal/config"
	"github.com/TheCing/uma-parent-viewer/internal/diagnose"
	"github.com/TheCing/uma-parent-viewer/internal/enrich"
	"github.com/TheCing/uma-parent-viewer/internal/journal"
	"github.com/TheCing/uma-parent-viewer/internal/launcher"
	"github.com/TheCing/uma-parent-viewer/internal/metrics"
	iview "github.com/TheCing/uma-parent-viewer/internal/server"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Config = cfg.Config

type Launcher = launcher.Launcher

type RefData = enrich.RefData

type Enricher = enrich.Enricher

type Outcome = enrich.Outcome

type TableReport = enrich.TableReport

type Report = diagnose.Report

type Run = journal.Run

type Snapshot = iview.Snapshot

// NewLauncher returns the encoding-diagnostic launcher bound to the
// OS stdio.
func NewLauncher() *Launcher { return launcher.New() }

// LoadConfig loads the TOML config at path. An empty path falls back
// to upv.toml in the working directory, then to built-in defaults.
func LoadConfig(path string) (Config, error) { return cfg.LoadOrDefault(path) }

// Diagnose collects the encoding diagnostic report for this process.
func Diagnose() Report { return (&diagnose.Collector{}).Report() }

// LoadRefData reads the reference tables from dir. Missing tables stay
// empty and are reported instead of failing the load.
func LoadRefData(dir string) (*RefData, []TableReport) { return enrich.Load(dir) }

// NewEnricher wraps loaded reference tables.
func NewEnricher(ref *RefData) *Enricher { return enrich.NewEnricher(ref) }

// OpenJournal opens the run journal at dsn, creating the schema when
// it is missing.
func OpenJournal(dsn string) (*journal.Journal, error) { return journal.Open(dsn) }

// NewSnapshot points the viewer at an enriched data file without
// reading it; call Load on the result.
func NewSnapshot(dataPath string, log *slog.Logger) *Snapshot {
	return iview.NewSnapshot(dataPath, log)
}

// NewViewerServer starts an HTTP server exposing the viewer page and
// API over snap.
func NewViewerServer(addr, basePath string, snap *Snapshot) (*http.Server, error) {
	return iview.NewServer(addr, basePath, snap)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }
