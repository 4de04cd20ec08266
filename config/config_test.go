package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Ribbons.Count != 300 {
		t.Errorf("expected 300 ribbons, got %d", cfg.Ribbons.Count)
	}
	if cfg.Field.Spacing != 20 {
		t.Errorf("expected spacing 20, got %d", cfg.Field.Spacing)
	}
	if cfg.Derived.FrameInterval != 100*time.Millisecond {
		t.Errorf("expected 100ms frame interval, got %s", cfg.Derived.FrameInterval)
	}
	if cfg.Derived.RefreshInterval != 10*time.Minute {
		t.Errorf("expected 10m refresh interval, got %s", cfg.Derived.RefreshInterval)
	}

	want := color.RGBA{R: 0x14, G: 0x34, B: 0x2B, A: 0xFF}
	if cfg.Derived.Full != want {
		t.Errorf("expected full color %v, got %v", want, cfg.Derived.Full)
	}
	if cfg.Derived.Outline.A != 0x78 {
		t.Errorf("expected outline alpha 0x78, got %#x", cfg.Derived.Outline.A)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("ribbons:\n  count: 12\nfield:\n  noise: simplex\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Ribbons.Count != 12 {
		t.Errorf("expected count override 12, got %d", cfg.Ribbons.Count)
	}
	if cfg.Ribbons.MaxLen != 225 {
		t.Errorf("expected max_len default 225 to survive, got %d", cfg.Ribbons.MaxLen)
	}
	if cfg.Field.Noise != "simplex" {
		t.Errorf("expected simplex noise, got %q", cfg.Field.Noise)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero spacing":   "field:\n  spacing: 0\n",
		"inverted range": "ribbons:\n  min_len: 10\n  max_len: 5\n",
		"unknown noise":  "field:\n  noise: worley\n",
		"bad color":      "palette:\n  full: \"#zzzzzz\"\n",
		"bad defaults":   "data:\n  default_full: 0.8\n  default_partial: 0.5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %s", name)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#FF579F", color.RGBA{R: 0xFF, G: 0x57, B: 0x9F, A: 0xFF}},
		{"#00000078", color.RGBA{A: 0x78}},
		{"#fff", color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Ribbons.Count = 42

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if loaded.Ribbons.Count != 42 {
		t.Errorf("expected count 42 after reload, got %d", loaded.Ribbons.Count)
	}
}
