package textdata

import "strings"

// Correction rewrites one UmaTL community term to the official Global
// client term.
type Correction struct {
	From string
	To   string
}

// Corrections applies a terminology table: an exact match wins, then
// every contained term is replaced in table order.
type Corrections struct {
	exact   map[string]string
	ordered []Correction
}

// NewCorrections builds a Corrections table from ordered pairs.
func NewCorrections(pairs []Correction) *Corrections {
	exact := make(map[string]string, len(pairs))
	for _, p := range pairs {
		exact[p.From] = p.To
	}
	return &Corrections{exact: exact, ordered: pairs}
}

// Apply corrects a single display name. Empty names pass through.
func (c *Corrections) Apply(name string) string {
	if name == "" {
		return name
	}
	if right, ok := c.exact[name]; ok {
		return right
	}
	corrected := name
	for _, p := range c.ordered {
		if strings.Contains(corrected, p.From) {
			corrected = strings.ReplaceAll(corrected, p.From, p.To)
		}
	}
	return corrected
}

// SparkNameCorrections maps community spark and race terminology to the
// Global client's terms. Applied to categories 147 and 36.
var SparkNameCorrections = NewCorrections([]Correction{
	// Running style aptitudes
	{"Runner", "Front Runner"},
	{"Leader", "Pace Chaser"},
	{"Betweener", "Late Surger"},
	{"Chaser", "End Closer"},

	// Track condition skills
	{"Bad Track Condition ○", "Wet Conditions ○"},
	{"Bad Track Condition ◎", "Wet Conditions ◎"},
	{"Bad Track Condition ×", "Wet Conditions ×"},

	// Running style specific skills
	{"Frontrunner", "Early Lead"},
	{"Runner's Corners ○", "Front Runner Corners ○"},
	{"Runner's Corners ◎", "Front Runner Corners ◎"},
	{"Runner's Straights ○", "Front Runner Straightaways ○"},
	{"Runner's Straights ◎", "Front Runner Straightaways ◎"},
	{"Runner's Tricks ○", "Front Runner Savvy ○"},
	{"Runner's Tricks ◎", "Front Runner Savvy ◎"},
	{"Leader's Corners ○", "Pace Chaser Corners ○"},
	{"Leader's Corners ◎", "Pace Chaser Corners ◎"},
	{"Leader's Straights ○", "Pace Chaser Straightaways ○"},
	{"Leader's Straights ◎", "Pace Chaser Straightaways ◎"},
	{"Leader's Tricks ○", "Pace Chaser Savvy ○"},
	{"Leader's Tricks ◎", "Pace Chaser Savvy ◎"},
	{"Betweener's Corners ○", "Late Surger Corners ○"},
	{"Betweener's Corners ◎", "Late Surger Corners ◎"},
	{"Betweener's Straights ○", "Late Surger Straightaways ○"},
	{"Betweener's Straights ◎", "Late Surger Straightaways ◎"},
	{"Betweener's Tricks ○", "Late Surger Savvy ○"},
	{"Betweener's Tricks ◎", "Late Surger Savvy ◎"},
	{"Chaser's Corners ○", "End Closer Corners ○"},
	{"Chaser's Corners ◎", "End Closer Corners ◎"},
	{"Chaser's Straights ○", "End Closer Straightaways ○"},
	{"Chaser's Straights ◎", "End Closer Straightaways ◎"},
	{"Chaser's Tricks ○", "End Closer Savvy ○"},
	{"Chaser's Tricks ◎", "End Closer Savvy ◎"},

	// Debuff skills
	{"Frantic Runners", "Frenzied Front Runners"},
	{"Restrained Runners", "Subdued Front Runners"},
	{"Panicked Runners", "Flustered Front Runners"},
	{"Faltering Runners", "Hesitant Front Runners"},
	{"Frantic Leaders", "Frenzied Pace Chasers"},
	{"Restrained Leaders", "Subdued Pace Chasers"},
	{"Panicked Leaders", "Flustered Pace Chasers"},
	{"Faltering Leaders", "Hesitant Pace Chasers"},
	{"Frantic Betweeners", "Frenzied Late Surgers"},
	{"Restrained Betweeners", "Subdued Late Surgers"},
	{"Panicked Betweeners", "Flustered Late Surgers"},
	{"Faltering Betweeners", "Hesitant Late Surgers"},
	{"Frantic Chasers", "Frenzied End Closers"},
	{"Restrained Chasers", "Subdued End Closers"},
	{"Panicked Chasers", "Flustered End Closers"},
	{"Faltering Chasers", "Hesitant End Closers"},

	// Common skill name differences
	{"Position Swiper", "Position Pilfer"},
	{"100K Horsepower", "1,500,000 CC"},
	{"1M Horsepower", "15,000,000 CC"},
	{"Blue Rose Chaser", "Blue Rose Closer"},
	{"Backup Belly", "Extra Tank"},
	{"Big Strides", "Furious Feat"},
	{"Autumn Girl ○", "Fall Runner ○"},
	{"Autumn Girl ◎", "Fall Runner ◎"},
	{"Autumn Girl ×", "Fall Runner ×"},

	// Spark names where the community dump diverges from Global
	{"Hold Your Tail High", "Tail Held High"},

	// Stat name
	{"Wisdom", "Wit"},
})

// NicknameCorrections covers the epithet categories 130 and 151.
var NicknameCorrections = NewCorrections([]Correction{
	{"Int Bonus", "Wit Bonus"},
	{"Int Cap Up", "Wit Cap Up"},
})
