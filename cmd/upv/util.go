package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/TheCing/uma-parent-viewer/internal/journal"
)

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	_, _ = fmt.Fprintln(w, string(b))
}

// formatRun renders one journal row: start time, tool, status,
// duration and whatever detail or error the run recorded.
func formatRun(r journal.Run) string {
	dur := "running"
	if r.FinishedAt.Valid {
		dur = r.FinishedAt.Time.Sub(r.StartedAt).Round(time.Millisecond).String()
	}
	line := fmt.Sprintf("%s  %-9s %-6s %10s",
		r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Tool, r.Status, dur)
	if r.Detail.Valid && r.Detail.String != "" {
		line += "  " + r.Detail.String
	}
	if r.Error.Valid && r.Error.String != "" {
		line += "  error: " + r.Error.String
	}
	return line
}
