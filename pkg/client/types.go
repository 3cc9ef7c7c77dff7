package client

import (
	"encoding/json"
	"time"
)

// VeteranSummary is one row of the paginated veteran list. CardID is a
// json.Number so large ids survive the round trip.
type VeteranSummary struct {
	Index      int         `json:"index"`
	CardID     json.Number `json:"card_id,omitempty"`
	CharaName  string      `json:"chara_name_en,omitempty"`
	CardName   string      `json:"card_name_en,omitempty"`
	SparkCount int         `json:"spark_count"`
	WinCount   int         `json:"win_count"`
}

// VeteranPage is one page of the veteran list.
type VeteranPage struct {
	Total    int              `json:"total"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
	Veterans []VeteranSummary `json:"veterans"`
}

// SparkTally is one entry of the most-common-sparks ranking.
type SparkTally struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes the served collection.
type Stats struct {
	Veterans    int          `json:"veterans"`
	TotalSparks int          `json:"total_sparks"`
	TopSparks   []SparkTally `json:"top_sparks"`
	LoadedAt    time.Time    `json:"loaded_at"`
}

// Health is the healthz response.
type Health struct {
	Status   string `json:"status"`
	Veterans int    `json:"veterans"`
}

// ErrorResponse is the API error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
