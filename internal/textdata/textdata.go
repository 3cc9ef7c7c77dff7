// Package textdata downloads the UmaTL community text dump and turns it
// into the local reference files the enricher reads, with community
// terminology corrected to the Global client's terms.
package textdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultURL is the UmaTL text_data_dict.json raw location.
const DefaultURL = "https://raw.githubusercontent.com/UmaTL/hachimi-tl-en/main/localized_data/text_data_dict.json"

// DefaultTimeout bounds the dump download.
const DefaultTimeout = 60 * time.Second

// Dump is the downloaded text data: category id -> text id -> text.
type Dump map[string]map[string]string

// Category returns one category table, never nil.
func (d Dump) Category(id string) map[string]string {
	if m, ok := d[id]; ok {
		return m
	}
	return map[string]string{}
}

// Client fetches the text dump.
type Client struct {
	url  string
	http *http.Client
}

// NewClient returns a Client for the given URL. Empty url means
// DefaultURL; a non-positive timeout means DefaultTimeout.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// Download fetches and decodes the dump.
func (c *Client) Download(ctx context.Context) (Dump, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build text data request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download text data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download text data: unexpected status %s", resp.Status)
	}
	var d Dump
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode text data: %w", err)
	}
	return d, nil
}

// SupportCardName is one supportcardnames_global.json entry, merged from
// categories 75 (name), 76 (title) and 77 (chara).
type SupportCardName struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Chara string `json:"chara,omitempty"`
}

// FileReport summarizes one generated reference file.
type FileReport struct {
	Filename  string
	Entries   int
	Corrected int
}

// Generate builds the six reference files under dir and returns one
// report per file in generation order.
func Generate(dump Dump, dir string) ([]FileReport, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	sparks, sparkCorrected := correctedCategory(dump, "147", SparkNameCorrections)
	races, raceCorrected := correctedCategory(dump, "36", SparkNameCorrections)
	outfits := dump.Category("14")
	cards := buildSupportCardNames(dump)
	titles := buildRaceTitles(dump)
	nicks, nickCorrected := buildNicknames(dump)

	files := []struct {
		report FileReport
		value  any
	}{
		{FileReport{"sparknames_global.json", len(sparks), sparkCorrected}, sparks},
		{FileReport{"racenames_global.json", len(races), raceCorrected}, races},
		{FileReport{"outfitnames_global.json", len(outfits), 0}, outfits},
		{FileReport{"supportcardnames_global.json", len(cards), 0}, cards},
		{FileReport{"racetitles_global.json", len(titles), 0}, titles},
		{FileReport{"nicknames_global.json", len(nicks), nickCorrected}, nicks},
	}

	reports := make([]FileReport, 0, len(files))
	for _, f := range files {
		if err := WriteJSON(filepath.Join(dir, f.report.Filename), f.value); err != nil {
			return reports, err
		}
		reports = append(reports, f.report)
	}
	return reports, nil
}

// correctedCategory extracts one category with a correction table
// applied, reporting how many entries changed.
func correctedCategory(dump Dump, id string, corr *Corrections) (map[string]string, int) {
	src := dump.Category(id)
	out := make(map[string]string, len(src))
	corrected := 0
	for key, name := range src {
		fixed := corr.Apply(name)
		if fixed != name {
			corrected++
		}
		out[key] = fixed
	}
	return out, corrected
}

// buildSupportCardNames merges categories 75/76/77 keyed by card id.
func buildSupportCardNames(dump Dump) map[string]SupportCardName {
	names := dump.Category("75")
	titles := dump.Category("76")
	charas := dump.Category("77")

	ids := make(map[string]struct{}, len(names))
	for id := range names {
		ids[id] = struct{}{}
	}
	for id := range titles {
		ids[id] = struct{}{}
	}
	for id := range charas {
		ids[id] = struct{}{}
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	out := make(map[string]SupportCardName, len(sorted))
	for _, id := range sorted {
		out[id] = SupportCardName{Name: names[id], Title: titles[id], Chara: charas[id]}
	}
	return out
}

// buildRaceTitles extracts category 111 with embedded newlines
// flattened to spaces.
func buildRaceTitles(dump Dump) map[string]string {
	src := dump.Category("111")
	out := make(map[string]string, len(src))
	for id, name := range src {
		out[id] = strings.TrimSpace(strings.ReplaceAll(name, "\n", " "))
	}
	return out
}

// buildNicknames merges category 151 (support card bonuses) with the
// earned epithets of category 130, which win on overlap.
func buildNicknames(dump Dump) (map[string]string, int) {
	out := map[string]string{}
	corrected := 0
	for _, id := range []string{"151", "130"} {
		for key, name := range dump.Category(id) {
			fixed := NicknameCorrections.Apply(name)
			if fixed != name {
				corrected++
			}
			out[key] = fixed
		}
	}
	return out, corrected
}

// WriteJSON writes v pretty-printed without HTML escaping, so CJK text
// and the circle marks stay readable in the output files.
func WriteJSON(path string, v any) error {
	// #nosec G304
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
