package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestHelpListsPipelineTools(t *testing.T) {
	root := buildRoot()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"--help"})
	if err := root.Execute(); err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, tool := range []string{"init", "diagnose", "extract", "generate", "enrich", "view", "history"} {
		if !strings.Contains(buf.String(), tool) {
			t.Fatalf("help output missing %q:\n%s", tool, buf.String())
		}
	}
}

func TestEnrichRejectsExtraArgs(t *testing.T) {
	root := buildRoot()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"enrich", "in.json", "out.json", "extra.json"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected argument count error")
	}
}

func TestUnknownToolFails(t *testing.T) {
	root := buildRoot()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"frobnicate"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected unknown command error")
	}
}

func TestHistoryLimitFlagDefault(t *testing.T) {
	cmd := createHistoryCommand(&command{flags: &GlobalFlags{}}, &HistoryFlags{})
	if got := cmd.Flags().Lookup("limit").DefValue; got != "20" {
		t.Fatalf("limit default = %s, want 20", got)
	}
}
