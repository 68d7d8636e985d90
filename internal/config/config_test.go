package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/secretgrid/internal/grid"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Origin != "top" {
		t.Errorf("expected origin top, got %s", cfg.Origin)
	}
	if cfg.Timeout <= 0 {
		t.Error("timeout should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secretgrid.yaml")
	data := []byte("url: https://example.com/doc\norigin: bottom\ntimeout: 5s\ncache_size: 2\nmax_body_size: 1024\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.URL != "https://example.com/doc" {
		t.Errorf("unexpected url %s", cfg.URL)
	}
	if cfg.Origin != "bottom" {
		t.Errorf("expected origin bottom, got %s", cfg.Origin)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Timeout)
	}
	if cfg.CacheSize != 2 {
		t.Errorf("expected cache size 2, got %d", cfg.CacheSize)
	}
	if cfg.MaxBodySize != 1024 {
		t.Errorf("expected max body size 1024, got %d", cfg.MaxBodySize)
	}
	// unset fields keep defaults
	if cfg.Style != StylePlain {
		t.Errorf("expected default style, got %s", cfg.Style)
	}
	if cfg.MaxCells != grid.DefaultMaxCells {
		t.Errorf("expected default max cells, got %d", cfg.MaxCells)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad origin", "origin: sideways\n"},
		{"bad style", "style: neon\n"},
		{"zero timeout", "timeout: 0s\n"},
		{"negative cache", "cache_size: -1\n"},
		{"zero body size", "max_body_size: 0\n"},
		{"not yaml", "origin: [\n"},
	}

	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.URL = "https://example.com"
	cfg.Style = StyleFramed

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestGridOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Origin = "bottom"
	opts, err := cfg.GridOptions()
	if err != nil {
		t.Fatal(err)
	}

	g, err := grid.Build([]grid.Record{{X: 0, Y: 0, Char: "a"}, {X: 0, Y: 1, Char: "b"}}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if g.String() != "b\na" {
		t.Errorf("expected bottom origin rendering, got %q", g.String())
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("original")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Origin != "bottom" {
		t.Errorf("expected origin bottom, got %s", cfg.Origin)
	}
	if cfg.Timeout != DefaultConfig().Timeout {
		t.Error("expected preset to keep default timeout")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("expected sorted names, got %v", presets)
		}
	}
}
