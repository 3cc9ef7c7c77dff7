package enrich

import (
	"fmt"
	"strconv"
	"strings"
)

// effectTypes maps skill_data effect type ids to display names, ported
// from the uma-tools race solver tables.
var effectTypes = map[int]string{
	0:  "No Effect",
	1:  "Speed +",
	2:  "Stamina +",
	3:  "Power +",
	4:  "Guts +",
	5:  "Wit +",
	9:  "Stamina Recovery",
	10: "Start Delay x",
	14: "Set Start Delay",
	21: "Current Speed +",
	22: "Current Speed + (w/ decel)",
	27: "Target Speed +",
	28: "Lane Move Speed +",
	31: "Acceleration +",
	35: "Change Lane",
	37: "Activate Random Gold",
	42: "Extend Evolved Duration",
}

var (
	phaseNames    = map[string]string{"0": "Opening Leg", "1": "Middle Leg", "2": "Final Leg"}
	styleNames    = map[string]string{"1": "Front Runner", "2": "Pace Chaser", "3": "Late Surger", "4": "End Closer"}
	groundNames   = map[string]string{"1": "Turf", "2": "Dirt"}
	distanceNames = map[string]string{"1": "Sprint", "2": "Mile", "3": "Medium", "4": "Long"}
)

// conditionOps in match order; two-character operators first so ">="
// is not split at ">".
var conditionOps = []string{">=", "<=", "==", "!=", ">", "<", "="}

// ParseCondition renders a raw skill condition string ("phase>=2&order<=5")
// into a readable sentence fragment. Empty conditions read "Always".
func ParseCondition(condition string) string {
	if condition == "" {
		return "Always"
	}
	var parts []string
	for _, term := range strings.Split(condition, "&") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		matched := false
		for _, op := range conditionOps {
			if !strings.Contains(term, op) {
				continue
			}
			kv := strings.SplitN(term, op, 2)
			key := strings.TrimSpace(kv[0])
			value := strings.TrimSpace(kv[1])
			if piece := translateTerm(key, op, value); piece != "" {
				parts = append(parts, piece)
			}
			matched = true
			break
		}
		if !matched {
			parts = append(parts, titleCase(strings.ReplaceAll(term, "_", " ")))
		}
	}
	if len(parts) == 0 {
		return "Always"
	}
	return strings.Join(parts, " & ")
}

// translateTerm renders one key/op/value condition term. An empty
// return means the term carries no information (the "always" marker).
func translateTerm(key, op, value string) string {
	switch {
	case key == "phase":
		name, ok := phaseNames[value]
		if !ok {
			name = "Phase " + value
		}
		switch op {
		case "==", "=":
			return name
		case ">=":
			return name + "+"
		default:
			return "phase" + op + value
		}
	case key == "distance_rate":
		switch op {
		case ">=":
			return "After " + value + "% of race"
		case "<=":
			return "Before " + value + "% of race"
		default:
			return value + "% of race"
		}
	case key == "order":
		switch op {
		case "<=":
			return "Top " + value
		case ">=":
			return "Position " + value + "+"
		default:
			return "Position " + value
		}
	case key == "order_rate":
		switch op {
		case "<=":
			return "Top " + value + "%"
		case ">=":
			pct, _ := strconv.Atoi(value)
			return fmt.Sprintf("Back %d%%", 100-pct)
		default:
			return value + "% of field"
		}
	case key == "running_style":
		if name, ok := styleNames[value]; ok {
			return name
		}
		return "Style " + value
	case key == "corner":
		if value == "0" {
			return "Not in corner"
		}
		return "Corner " + value
	case key == "is_lastspurt" && value == "1":
		return "Last Spurt"
	case key == "is_finalcorner" && value == "1":
		return "Final Corner"
	case key == "hp_per":
		switch op {
		case "<=":
			return "HP ≤" + value + "%"
		case ">=":
			return "HP ≥" + value + "%"
		default:
			return "HP " + value + "%"
		}
	case key == "activate_count_heal":
		return "After " + value + " recovery skill(s)"
	case key == "ground_type":
		if name, ok := groundNames[value]; ok {
			return name
		}
		return "Ground " + value
	case key == "distance_type":
		if name, ok := distanceNames[value]; ok {
			return name
		}
		return "Distance " + value
	case strings.HasSuffix(key, "_random") && value == "1":
		area := strings.TrimSuffix(key, "_random")
		return "Random in " + titleCase(strings.ReplaceAll(area, "_", " "))
	case key == "always":
		return ""
	default:
		return titleCase(strings.ReplaceAll(key, "_", " ")) + " " + op + " " + value
	}
}

// titleCase uppercases the first letter of each space-separated word and
// lowercases the rest, matching how the condition keys are displayed.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// FormatEffect renders one effect with its magnitude scaled the way the
// game data stores it (speed and acceleration values are x10000,
// recovery is x100).
func FormatEffect(e SkillEffect) string {
	name, ok := effectTypes[e.Type]
	if !ok {
		name = fmt.Sprintf("Effect %d", e.Type)
	}
	switch {
	case e.Type >= 1 && e.Type <= 5:
		return fmt.Sprintf("%s%d", name, e.Modifier)
	case e.Type == 9:
		return fmt.Sprintf("Recover %.0f%% Stamina", float64(e.Modifier)/100)
	case e.Type == 21 || e.Type == 22 || e.Type == 27:
		return fmt.Sprintf("%s%.2fm/s", name, float64(e.Modifier)/10000)
	case e.Type == 31:
		return fmt.Sprintf("%s%.4f", name, float64(e.Modifier)/10000)
	case e.Type == 10:
		return fmt.Sprintf("Start Delay x%d", e.Modifier)
	default:
		return fmt.Sprintf("%s (%d)", name, e.Modifier)
	}
}

// ClassifySkill returns the color class of a skill: green for stat
// boosts, blue for debuffs, unique/inherited by id shape, or "" when
// only the rarity can decide.
func ClassifySkill(skillID int64, effects []SkillEffect) string {
	for _, e := range effects {
		if e.Type >= 1 && e.Type <= 5 {
			return "green"
		}
	}
	for _, e := range effects {
		if e.Modifier < 0 {
			return "blue"
		}
	}
	sid := strconv.FormatInt(skillID, 10)
	if len(sid) == 6 && (strings.HasPrefix(sid, "10") || strings.HasPrefix(sid, "11")) {
		return "unique"
	}
	if len(sid) == 6 && (strings.HasPrefix(sid, "90") || strings.HasPrefix(sid, "91")) {
		return "inherited"
	}
	return ""
}

// rarityName maps the numeric rarity to its display bucket.
func rarityName(rarity int) string {
	switch rarity {
	case 1, 2, 3:
		return "White"
	case 4, 5:
		return "Gold"
	case 6:
		return "Unique"
	default:
		return fmt.Sprintf("Rarity %d", rarity)
	}
}

// EffectInfo is the enriched per-effect entry written into the output.
type EffectInfo struct {
	Type     int    `json:"type"`
	TypeName string `json:"type_name"`
	Modifier int    `json:"modifier"`
	Readable string `json:"readable"`
}

// SkillDetails is the presentation of one skill_data entry.
type SkillDetails struct {
	Rarity            string
	SkillType         string
	Condition         string // raw condition string
	ConditionReadable string
	Effects           []EffectInfo
	DurationBaseMS    int
	DurationPer1000M  string
	Summary           string
	HasAlternatives   bool
}

// SkillName looks up the English skill name, preferring the Global
// table and falling back to the community EN entry of the JP table.
func (r *RefData) SkillName(skillID int64) string {
	key := strconv.FormatInt(skillID, 10)
	if entry, ok := r.SkillsGlobal[key]; ok && len(entry) > 0 && entry[0] != "" {
		return entry[0]
	}
	if entry, ok := r.SkillsJP[key]; ok && len(entry) > 1 {
		return entry[1]
	}
	return ""
}

// SkillDetailsFor decodes the skill_data entry for a skill id. The
// second return is false when the table has no entry.
func (r *RefData) SkillDetailsFor(skillID int64) (SkillDetails, bool) {
	entry, ok := r.SkillData[strconv.FormatInt(skillID, 10)]
	if !ok {
		return SkillDetails{}, false
	}

	details := SkillDetails{Rarity: rarityName(entry.Rarity)}
	if len(entry.Alternatives) == 0 {
		return details, true
	}

	// Alternatives carry different activation conditions for the same
	// skill; the first one is the canonical display variant.
	alt := entry.Alternatives[0]
	details.HasAlternatives = true
	details.Condition = alt.Condition
	details.ConditionReadable = ParseCondition(alt.Condition)

	if alt.BaseDuration > 0 {
		details.DurationBaseMS = alt.BaseDuration
		details.DurationPer1000M = fmt.Sprintf("%.1fs", float64(alt.BaseDuration)/1000)
	}

	readables := make([]string, 0, len(alt.Effects))
	details.Effects = make([]EffectInfo, 0, len(alt.Effects))
	for _, e := range alt.Effects {
		name, ok := effectTypes[e.Type]
		if !ok {
			name = "Unknown"
		}
		info := EffectInfo{Type: e.Type, TypeName: name, Modifier: e.Modifier, Readable: FormatEffect(e)}
		details.Effects = append(details.Effects, info)
		readables = append(readables, info.Readable)
	}

	details.SkillType = ClassifySkill(skillID, alt.Effects)
	if details.SkillType == "" {
		switch details.Rarity {
		case "Gold":
			details.SkillType = "gold"
		case "Unique":
			details.SkillType = "unique"
		default:
			details.SkillType = "white"
		}
	}

	details.Summary = details.ConditionReadable + " → " + strings.Join(readables, ", ")
	return details, true
}
