package enrich

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Enricher decorates veteran records in place using the loaded
// reference tables. Records are generic JSON objects so fields this
// tool does not know about survive the round trip untouched.
type Enricher struct {
	Ref *RefData
}

// NewEnricher wraps the reference tables.
func NewEnricher(ref *RefData) *Enricher {
	return &Enricher{Ref: ref}
}

// Outcome summarizes one enrichment run.
type Outcome struct {
	Characters    int
	NameEnriched  int // records that gained at least one new field
	SkillEnriched int // records with at least one named skill
}

// DecodeVeterans reads the extractor output: a JSON array of veteran
// objects. Numbers decode as json.Number so large ids stay exact.
func DecodeVeterans(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var veterans []map[string]any
	if err := dec.Decode(&veterans); err != nil {
		return nil, fmt.Errorf("decode veterans: %w", err)
	}
	return veterans, nil
}

// ReadVeteransFile loads and decodes a veterans file.
func ReadVeteransFile(path string) ([]map[string]any, error) {
	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return DecodeVeterans(f)
}

// DefaultInputPath mirrors the extractor's output conventions: data.json
// in baseDir, then one directory up. The second return reports whether
// either exists.
func DefaultInputPath(baseDir string) (string, bool) {
	local := filepath.Join(baseDir, "data.json")
	if _, err := os.Stat(local); err == nil {
		return local, true
	}
	parent := filepath.Join(baseDir, "..", "data.json")
	if _, err := os.Stat(parent); err == nil {
		return parent, true
	}
	return "", false
}

// All enriches every record and reports the counts.
func (e *Enricher) All(veterans []map[string]any) Outcome {
	out := Outcome{Characters: len(veterans)}
	for _, v := range veterans {
		before := len(v)
		e.Character(v)
		if len(v) > before {
			out.NameEnriched++
		}
		if anyNamedSkill(v) {
			out.SkillEnriched++
		}
	}
	return out
}

// Character adds English name fields to a single record in place.
func (e *Enricher) Character(v map[string]any) {
	r := e.Ref

	if cardID, ok := toInt64(v["card_id"]); ok && cardID != 0 {
		for k, val := range r.CharaInfo(cardID) {
			v[k] = val
		}
	}

	if clothID, ok := toInt64(v["race_cloth_id"]); ok && clothID != 0 {
		if name := r.OutfitName(clothID); name != "" {
			v["race_cloth_name_en"] = name
		}
	}

	for _, skill := range objectSlice(v["skill_array"]) {
		skillID, ok := toInt64(skill["skill_id"])
		if !ok || skillID == 0 {
			continue
		}
		if name := r.SkillName(skillID); name != "" {
			skill["skill_name_en"] = name
		}
		details, ok := r.SkillDetailsFor(skillID)
		if !ok {
			continue
		}
		skill["rarity"] = details.Rarity
		if details.HasAlternatives {
			skill["skill_type"] = details.SkillType
			skill["condition"] = details.ConditionReadable
			skill["effects"] = details.Effects
			if details.DurationPer1000M != "" {
				skill["duration"] = details.DurationPer1000M
			}
			skill["summary"] = details.Summary
		}
	}

	if sparkIDs := idSlice(v["factor_id_array"]); len(sparkIDs) > 0 {
		enriched := make([]map[string]any, 0, len(sparkIDs))
		for _, raw := range sparkIDs {
			entry := map[string]any{"spark_id": raw.value}
			if name := r.SparkName(raw.id); name != "" {
				entry["spark_name_en"] = name
			}
			if stars := SparkStars(raw.id); stars != 0 {
				entry["stars"] = stars
			}
			enriched = append(enriched, entry)
		}
		v["spark_array_enriched"] = enriched
	}

	for _, factor := range objectSlice(v["factor_info_array"]) {
		if sparkID, ok := toInt64(factor["factor_id"]); ok && sparkID != 0 {
			if name := r.SparkName(sparkID); name != "" {
				factor["spark_name_en"] = name
			}
		}
	}

	if saddleIDs := idSlice(v["win_saddle_id_array"]); len(saddleIDs) > 0 {
		enriched := make([]map[string]any, 0, len(saddleIDs))
		for _, raw := range saddleIDs {
			entry := map[string]any{"saddle_id": raw.value}
			if name := r.RaceTitle(raw.id); name != "" {
				entry["race_name_en"] = name
			}
			enriched = append(enriched, entry)
		}
		v["win_saddle_array_enriched"] = enriched
	}

	if nickIDs := idSlice(v["nickname_id_array"]); len(nickIDs) > 0 {
		enriched := make([]map[string]any, 0, len(nickIDs))
		for _, raw := range nickIDs {
			entry := map[string]any{"nickname_id": raw.value}
			if name := r.Nickname(raw.id); name != "" {
				entry["nickname_name_en"] = name
			}
			enriched = append(enriched, entry)
		}
		v["nickname_array_enriched"] = enriched
	}

	for _, support := range objectSlice(v["support_card_list"]) {
		if supportID, ok := toInt64(support["support_card_id"]); ok && supportID != 0 {
			for k, val := range r.SupportCardInfo(supportID) {
				support[k] = val
			}
		}
	}

	for _, parent := range objectSlice(v["succession_chara_array"]) {
		if parentCardID, ok := toInt64(parent["card_id"]); ok && parentCardID != 0 {
			for k, val := range r.CharaInfo(parentCardID) {
				parent[k] = val
			}
		}
		for _, spark := range objectSlice(parent["factor_info_array"]) {
			sparkID, ok := toInt64(spark["factor_id"])
			if !ok || sparkID == 0 {
				continue
			}
			if name := r.SparkName(sparkID); name != "" {
				spark["spark_name_en"] = name
			}
			if stars := SparkStars(sparkID); stars != 0 {
				spark["stars"] = stars
			}
		}
	}
}

// anyNamedSkill reports whether at least one skill entry got a name.
func anyNamedSkill(v map[string]any) bool {
	for _, skill := range objectSlice(v["skill_array"]) {
		if name, ok := skill["skill_name_en"].(string); ok && name != "" {
			return true
		}
	}
	return false
}

// rawID keeps the original JSON value next to its parsed form so the
// output preserves exactly what the extractor wrote.
type rawID struct {
	value any
	id    int64
}

// idSlice extracts an array of numeric ids, skipping entries that are
// not numbers.
func idSlice(v any) []rawID {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]rawID, 0, len(arr))
	for _, elem := range arr {
		if id, ok := toInt64(elem); ok {
			out = append(out, rawID{value: elem, id: id})
		}
	}
	return out
}

// objectSlice extracts an array of JSON objects, skipping other shapes.
func objectSlice(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, elem := range arr {
		if obj, ok := elem.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// toInt64 accepts the numeric shapes a decoded record can carry.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
