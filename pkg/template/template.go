// Package template generates starter upv.toml files for the common
// deployment shapes, so a new install does not begin from a blank page.
package template

import (
	"fmt"
	"strings"
)

// Kind selects a starter configuration shape.
type Kind string

const (
	// KindDefault keeps everything relative to the working directory:
	// reference tables in data/, pipeline output next to the binary,
	// viewer on localhost.
	KindDefault Kind = "default"
	// KindBatch is for scheduled re-extraction: no interactive prompts
	// and quiet console logging, with the details in the tool log.
	KindBatch Kind = "batch"
	// KindShared serves the viewer beyond localhost, under a base path
	// a reverse proxy can mount.
	KindShared Kind = "shared"
)

// Generator produces starter configuration files.
type Generator struct{}

// NewGenerator creates a template generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// SupportedKinds returns the kinds Generate accepts.
func (g *Generator) SupportedKinds() []string {
	return []string{string(KindDefault), string(KindBatch), string(KindShared)}
}

// Generate returns the upv.toml text for the given kind.
func (g *Generator) Generate(kind Kind) (string, error) {
	switch kind {
	case KindDefault, "":
		return g.defaultTemplate(), nil
	case KindBatch:
		return g.batchTemplate(), nil
	case KindShared:
		return g.sharedTemplate(), nil
	default:
		return "", fmt.Errorf("unknown template kind: %s (supported: %s)",
			kind, strings.Join(g.SupportedKinds(), ", "))
	}
}

// header is shared by every template so each generated file explains
// itself.
const header = `# upv configuration. Every setting is optional; missing ones use
# built-in defaults. See 'upv --help' for the pipeline walkthrough.
`

func (g *Generator) defaultTemplate() string {
	return header + `
# Generated reference tables (upv generate).
data_dir = "data"

# data.json and enriched_data.json land here (upv extract / enrich).
output_dir = "."

[extractor]
# Extra directories to search for an UmaExtractor install.
# extra_roots = ["D:/tools/UmaExtractor"]

[journal]
dsn = "upv.db"
retention_days = 30

[log]
level = "info"

[log.file]
# Combined output of external tools, rotated.
dir = "logs"

[view]
listen = "127.0.0.1:8765"
base_path = "/"
`
}

func (g *Generator) batchTemplate() string {
	return header + `
data_dir = "data"
output_dir = "."

[extractor]
# Scheduled runs cannot answer the preflight prompt.
auto_confirm = true

[journal]
dsn = "upv.db"
# Keep a longer trail for unattended runs.
retention_days = 90

[log]
# Console stays quiet; the tool log keeps the detail.
level = "error"

[log.file]
dir = "logs"
max_size_mb = 10
max_backups = 5

[view]
listen = "127.0.0.1:8765"
base_path = "/"
`
}

func (g *Generator) sharedTemplate() string {
	return header + `
data_dir = "data"
output_dir = "."

[journal]
dsn = "upv.db"
retention_days = 30

[log]
level = "info"

[log.file]
dir = "logs"

[view]
# Reachable from other machines; mount it behind a reverse proxy.
listen = "0.0.0.0:8765"
base_path = "/uma"
`
}
