package enrich

import "strconv"

// supportCardTypes keys off the first digit of the support card id.
var supportCardTypes = map[byte]string{
	'1': "Speed",
	'2': "Stamina",
	'3': "Power",
	'4': "Guts",
	'5': "Wit",
	'6': "Friend",
	'7': "Group",
}

// SparkName decodes a spark id ("factor" in the JP client) to its
// display name.
//
// Spark id encoding:
//   - 1XX-5XX: stats; 11XX-12XX ground; 21XX-24XX style; 31XX-34XX distance
//   - 10XXXVZZ (8 digits): unique skill sparks, V selects the outfit
//     variant and ZZ the star level
//   - 200XXYY (7 digits): skill sparks, named after the white skill
//   - 100XXXX (7 digits): race sparks, XXXX derives the race program
//   - everything else: direct sparknames table lookup
//
// Unique sparks always resolve to the unevolved unique skill name; the
// star level never changes the name.
func (r *RefData) SparkName(sparkID int64) string {
	// Unique skill sparks. V=1 maps to the base outfit unique (10XXXX),
	// V=2 to the alternate outfit unique (11XXXX).
	if sparkID >= 10000000 && sparkID < 20000000 {
		digits := strconv.FormatInt(sparkID, 10)
		middle, _ := strconv.ParseInt(digits[2:5], 10, 64)
		variant := digits[5]
		skillID := 100001 + middle
		if variant == '2' {
			skillID = 110001 + middle
		}
		if name := r.SkillName(skillID); name != "" {
			return name
		}
	}

	// Skill sparks display the white skill's name: derive the skill
	// group from the spark id and find the rarity-1 member.
	if sparkID >= 2000000 && sparkID < 3000000 {
		groupBase := (sparkID / 100) * 10
		for digit := int64(1); digit < 10; digit++ {
			candidate := groupBase + digit
			if entry, ok := r.SkillData[strconv.FormatInt(candidate, 10)]; ok && entry.Rarity == 1 {
				if name := r.SkillName(candidate); name != "" {
					return name
				}
				break
			}
		}
		// Fallback: any named skill in the group.
		for digit := int64(1); digit < 10; digit++ {
			if name := r.SkillName(groupBase + digit); name != "" {
				return name
			}
		}
	}

	// Race sparks carry a race program id.
	if sparkID >= 1000000 && sparkID < 10000000 {
		programID := sparkID / 100
		textRaceID := 1000 + programID%1000
		if name, ok := r.RaceNames[strconv.FormatInt(textRaceID, 10)]; ok && name != "" {
			return name
		}
	}

	// Stats, aptitudes, styles, scenarios and anything else.
	return r.SparkNames[strconv.FormatInt(sparkID, 10)]
}

// SparkStars extracts the star level encoded in the last two digits of
// a spark id; 0 means the id carries no valid level.
func SparkStars(sparkID int64) int {
	stars := int(sparkID % 100)
	if stars >= 1 && stars <= 3 {
		return stars
	}
	return 0
}

// RaceTitle looks up the trophy name for a win saddle id.
func (r *RefData) RaceTitle(saddleID int64) string {
	return r.RaceTitles[strconv.FormatInt(saddleID, 10)]
}

// Nickname looks up an epithet or support bonus name.
func (r *RefData) Nickname(nicknameID int64) string {
	return r.Nicknames[strconv.FormatInt(nicknameID, 10)]
}

// OutfitName looks up a racing outfit name.
func (r *RefData) OutfitName(raceClothID int64) string {
	return r.OutfitNames[strconv.FormatInt(raceClothID, 10)]
}

// CharaInfo resolves English character and outfit names for a card id,
// keyed the way the enriched records store them. The Global table wins;
// the full table fills in characters Global does not have yet.
func (r *RefData) CharaInfo(cardID int64) map[string]string {
	charaKey := strconv.FormatInt(cardID/100, 10)
	cardKey := strconv.FormatInt(cardID, 10)
	info := map[string]string{}

	if uma, ok := r.UmasGlobal[charaKey]; ok {
		info["chara_name_en"] = uma.DisplayName()
		if outfit, ok := uma.Outfits[cardKey]; ok {
			info["costume_name_en"] = outfit
			info["card_name_en"] = outfit + " " + info["chara_name_en"]
		}
		return info
	}

	if uma, ok := r.UmasFull[charaKey]; ok {
		info["chara_name_en"] = uma.DisplayName()
		if outfit, ok := uma.Outfits[cardKey]; ok {
			info["costume_name_en"] = outfit
			info["card_name_en"] = outfit + " " + info["chara_name_en"]
		}
	}
	return info
}

// SupportCardInfo resolves support card names and the stat type encoded
// in the id's first digit.
func (r *RefData) SupportCardInfo(supportCardID int64) map[string]string {
	key := strconv.FormatInt(supportCardID, 10)
	info := map[string]string{}
	if entry, ok := r.SupportCards[key]; ok {
		if entry.Name != "" {
			info["support_card_name_en"] = entry.Name
		}
		if entry.Title != "" {
			info["support_card_title_en"] = entry.Title
		}
		if entry.Chara != "" {
			info["support_card_chara_en"] = entry.Chara
		}
	}
	if len(key) > 0 {
		if stype, ok := supportCardTypes[key[0]]; ok {
			info["support_card_type"] = stype
		}
	}
	return info
}
