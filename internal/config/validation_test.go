package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func errorsOf(results []ValidationResult) []ValidationResult {
	var errs []ValidationResult
	for _, r := range results {
		if r.Level == "error" {
			errs = append(errs, r)
		}
	}
	return errs
}

func TestValidateStrict_Valid(t *testing.T) {
	cfg := Default()
	cfg.Actions.BaseURL = "http://localhost:8000"
	cfg.Tools = []ToolConfig{{
		Name:      "jupyter",
		Actions:   []string{"deploy", "open"},
		Versions:  []VersionConfig{{Value: "1.0"}, {Value: "2.1"}},
		Installed: "2.1",
	}}
	cfg.ApplyDefaults()

	results := cfg.ValidateStrict(t.TempDir())
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}

func TestValidateStrict_Tools(t *testing.T) {
	cfg := Default()
	cfg.Tools = []ToolConfig{
		{Name: "jupyter", Actions: []string{"deploy", "launch"}},
		{Name: "jupyter", Actions: []string{"deploy"}},
		{Name: ""},
		{Name: "rstudio", Actions: []string{"open"}, Versions: []VersionConfig{{Value: "1"}, {Value: "1"}}},
	}

	errs := errorsOf(cfg.validateTools())
	want := []string{
		`unknown action "launch"`,
		`"jupyter" is defined more than once`,
		`tools[2]: name is required`,
		`version selector requires a deploy action`,
		`version "1" listed twice`,
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %d: %v", len(want), len(errs), errs)
	}
	for i, w := range want {
		if !strings.Contains(errs[i].Message, w) {
			t.Errorf("error %d = %q, want it to contain %q", i, errs[i].Message, w)
		}
	}
}

func TestValidateStrict_VersionWarnings(t *testing.T) {
	cfg := Config{Tools: []ToolConfig{{
		Name:      "jupyter",
		Status:    "upgrading",
		Actions:   []string{"deploy"},
		Versions:  []VersionConfig{{Value: "1.0"}},
		Installed: "0.9",
		Selected:  "3.0",
	}}}

	results := cfg.validateTools()
	if HasErrors(results) {
		t.Fatalf("expected warnings only, got %v", results)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 warnings, got %v", results)
	}
}

func TestValidateStrict_Stream(t *testing.T) {
	dir := t.TempDir()

	cfg := Config{Stream: StreamConfig{EventType: "toolStatus"}}
	if !HasErrors(cfg.validateStream(dir)) {
		t.Error("missing source should be an error")
	}

	cfg.Stream.URL = "ws://localhost/events"
	if !HasErrors(cfg.validateStream(dir)) {
		t.Error("non-http url should be an error")
	}

	cfg.Stream.File = "events.sse"
	if !HasErrors(cfg.validateStream(dir)) {
		t.Error("missing stream file should be an error")
	}
	writeFile(t, filepath.Join(dir, "events.sse"), "")
	if results := cfg.validateStream(dir); len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
	if got := cfg.ResolveStreamFile(dir); got != filepath.Join(dir, "events.sse") {
		t.Errorf("ResolveStreamFile = %q", got)
	}
}

func TestValidateStrict_Actions(t *testing.T) {
	cfg := Config{Actions: ActionsConfig{Confirm: []string{"remove", "nuke"}}}
	results := cfg.validateActions()
	if HasErrors(results) {
		t.Fatalf("action findings should be warnings: %v", results)
	}
	if len(results) != 2 {
		t.Fatalf("expected base_url and unknown action warnings, got %v", results)
	}
}
