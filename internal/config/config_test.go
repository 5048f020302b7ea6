package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_Full(t *testing.T) {
	yaml := `
mode: iter
history: runs.db
color: never
log_level: debug
fail_fast: true
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != ModeIter {
		t.Errorf("mode = %q, want iter", cfg.Mode)
	}
	if cfg.History != "runs.db" {
		t.Errorf("history = %q, want runs.db", cfg.History)
	}
	if cfg.Color != ColorNever {
		t.Errorf("color = %q, want never", cfg.Color)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.LogLevel)
	}
	if !cfg.FailFast {
		t.Error("expected fail_fast to be true")
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != DefaultMode {
		t.Errorf("mode = %q, want %q", cfg.Mode, DefaultMode)
	}
	if cfg.Color != DefaultColor {
		t.Errorf("color = %q, want %q", cfg.Color, DefaultColor)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("log_level = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.History != "" {
		t.Errorf("history = %q, want empty", cfg.History)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad mode", "mode: turbo", "mode \"turbo\""},
		{"bad color", "color: purple", "color \"purple\""},
		{"bad level", "log_level: chatty", "log_level"},
		{"bad yaml", "mode: [", "parsing test.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "test.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_ResolvesHistory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "monty.yaml")
	if err := os.WriteFile(path, []byte("history: data/runs.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, "data", "runs.db")
	if cfg.History != want {
		t.Errorf("history = %q, want %q", cfg.History, want)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Errorf("expected reading error, got %v", err)
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" && strings.HasPrefix(found, root) {
		t.Fatalf("found %q before creating a config", found)
	}

	cfgPath := filepath.Join(root, "monty.yml")
	if err := os.WriteFile(cfgPath, []byte("mode: direct\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	found, err = FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Errorf("found = %q, want %q", found, cfgPath)
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"direct", "iter"} {
		if !ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if ValidMode("vm") {
		t.Error("ValidMode(vm) = true")
	}
}
