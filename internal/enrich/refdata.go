// Package enrich joins extracted veteran records against the bundled
// reference tables, adding English names, decoded sparks, skill details
// and support card info while leaving every original field in place.
package enrich

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/TheCing/uma-parent-viewer/internal/textdata"
)

// SkillEffect is one effect entry inside a skill_data alternative.
type SkillEffect struct {
	Type     int `json:"type"`
	Modifier int `json:"modifier"`
}

// SkillAlternative is one activation variant of a skill.
type SkillAlternative struct {
	Condition    string        `json:"condition"`
	BaseDuration int           `json:"baseDuration"`
	Effects      []SkillEffect `json:"effects"`
}

// SkillData is the per-skill reference entry from uma-tools.
type SkillData struct {
	Rarity       int                `json:"rarity"`
	Alternatives []SkillAlternative `json:"alternatives"`
}

// Uma is one character entry from the uma-tools character tables.
// Name holds [JP, EN]; Outfits maps card id to outfit name.
type Uma struct {
	Name    []string          `json:"name"`
	Outfits map[string]string `json:"outfits"`
}

// DisplayName prefers the English name and falls back to the first
// entry when no translation exists.
func (u Uma) DisplayName() string {
	if len(u.Name) > 1 && u.Name[1] != "" {
		return u.Name[1]
	}
	if len(u.Name) > 0 {
		return u.Name[0]
	}
	return ""
}

// RefData holds the eleven reference tables the enricher reads. Missing
// tables are empty maps, never nil.
type RefData struct {
	SkillsGlobal map[string][]string // id -> [EN name]
	SkillsJP     map[string][]string // id -> [JP name, EN name]
	SkillData    map[string]SkillData
	UmasGlobal   map[string]Uma
	UmasFull     map[string]Uma
	SparkNames   map[string]string
	RaceNames    map[string]string
	OutfitNames  map[string]string
	SupportCards map[string]textdata.SupportCardName
	RaceTitles   map[string]string
	Nicknames    map[string]string
}

// Empty reports whether no reference table has any entries.
func (r *RefData) Empty() bool {
	return len(r.SkillsGlobal) == 0 && len(r.SkillsJP) == 0 && len(r.SkillData) == 0 &&
		len(r.UmasGlobal) == 0 && len(r.UmasFull) == 0 && len(r.SparkNames) == 0 &&
		len(r.RaceNames) == 0 && len(r.OutfitNames) == 0 && len(r.SupportCards) == 0 &&
		len(r.RaceTitles) == 0 && len(r.Nicknames) == 0
}

// TableReport records the load result for one reference file.
type TableReport struct {
	Filename string
	Entries  int
	Err      error // non-nil when the file was missing or unreadable
}

// Load reads all reference tables from dir concurrently. A missing or
// invalid file is not fatal: its table stays empty and the report entry
// carries the error, matching the tool's best-effort loading.
func Load(dir string) (*RefData, []TableReport) {
	ref := &RefData{
		SkillsGlobal: map[string][]string{},
		SkillsJP:     map[string][]string{},
		SkillData:    map[string]SkillData{},
		UmasGlobal:   map[string]Uma{},
		UmasFull:     map[string]Uma{},
		SparkNames:   map[string]string{},
		RaceNames:    map[string]string{},
		OutfitNames:  map[string]string{},
		SupportCards: map[string]textdata.SupportCardName{},
		RaceTitles:   map[string]string{},
		Nicknames:    map[string]string{},
	}

	loaders := []struct {
		filename string
		load     func(path string) (int, error)
	}{
		{"skillnames_global.json", tableLoader(dir, &ref.SkillsGlobal)},
		{"skillnames_jp.json", tableLoader(dir, &ref.SkillsJP)},
		{"skill_data.json", tableLoader(dir, &ref.SkillData)},
		{"umas_global.json", tableLoader(dir, &ref.UmasGlobal)},
		{"umas_full.json", tableLoader(dir, &ref.UmasFull)},
		{"sparknames_global.json", tableLoader(dir, &ref.SparkNames)},
		{"racenames_global.json", tableLoader(dir, &ref.RaceNames)},
		{"outfitnames_global.json", tableLoader(dir, &ref.OutfitNames)},
		{"supportcardnames_global.json", tableLoader(dir, &ref.SupportCards)},
		{"racetitles_global.json", tableLoader(dir, &ref.RaceTitles)},
		{"nicknames_global.json", tableLoader(dir, &ref.Nicknames)},
	}

	reports := make([]TableReport, len(loaders))
	var g errgroup.Group
	for i, l := range loaders {
		g.Go(func() error {
			entries, err := l.load(l.filename)
			reports[i] = TableReport{Filename: l.filename, Entries: entries, Err: err}
			return nil
		})
	}
	// Loader errors are soft, so Wait never returns one.
	_ = g.Wait()
	return ref, reports
}

// tableLoader builds a loader for one JSON table into dst, which must
// be a pointer to a map type.
func tableLoader[M ~map[string]V, V any](dir string, dst *M) func(string) (int, error) {
	return func(filename string) (int, error) {
		path := filepath.Join(dir, filename)
		// #nosec G304
		b, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", filename, err)
		}
		var m M
		if err := json.Unmarshal(b, &m); err != nil {
			return 0, fmt.Errorf("decode %s: %w", filename, err)
		}
		*dst = m
		return len(m), nil
	}
}
