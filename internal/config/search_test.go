package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/armkin/internal/kinematics"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestDefaultSearchConfig(t *testing.T) {
	cfg := DefaultSearchConfig()

	if cfg.SRange == nil || *cfg.SRange != "0:355:5" {
		t.Errorf("Expected SRange '0:355:5', got %v", cfg.SRange)
	}
	if cfg.LRange == nil || *cfg.LRange != "-80:75:5" {
		t.Errorf("Expected LRange '-80:75:5', got %v", cfg.LRange)
	}
	if cfg.URange == nil || *cfg.URange != "-45:40:5" {
		t.Errorf("Expected URange '-45:40:5', got %v", cfg.URange)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.GetGrid() != kinematics.DefaultGrid() {
		t.Errorf("GetGrid() = %+v, want default grid", cfg.GetGrid())
	}
	if cfg.GetUnits() != "m" {
		t.Errorf("GetUnits() = %q, want m", cfg.GetUnits())
	}
	if cfg.GetTimeout() != 0 {
		t.Errorf("GetTimeout() = %v, want 0", cfg.GetTimeout())
	}
}

func TestEmptySearchConfigFallsBack(t *testing.T) {
	cfg := EmptySearchConfig()
	if cfg.GetGrid() != kinematics.DefaultGrid() {
		t.Errorf("GetGrid() = %+v, want default grid", cfg.GetGrid())
	}
	if cfg.GetWorkers() != 0 {
		t.Errorf("GetWorkers() = %d, want 0", cfg.GetWorkers())
	}
	s := cfg.Solver()
	if s.Grid.Len() != 41472 {
		t.Errorf("Solver grid len = %d, want 41472", s.Grid.Len())
	}
}

func TestLoadSearchConfig(t *testing.T) {
	path := writeConfig(t, "search.json", `{
  "s_range": "0:90:15",
  "workers": 4,
  "timeout": "2s",
  "units": "mm"
}`)

	cfg, err := LoadSearchConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	g := cfg.GetGrid()
	if g.S != (kinematics.Range{Min: 0, Max: 90, Step: 15}) {
		t.Errorf("S range = %+v", g.S)
	}
	// omitted ranges keep their defaults
	if g.L != kinematics.DefaultGrid().L || g.U != kinematics.DefaultGrid().U {
		t.Errorf("L/U ranges = %+v / %+v, want defaults", g.L, g.U)
	}
	if cfg.GetWorkers() != 4 {
		t.Errorf("GetWorkers() = %d, want 4", cfg.GetWorkers())
	}
	if cfg.GetTimeout() != 2*time.Second {
		t.Errorf("GetTimeout() = %v, want 2s", cfg.GetTimeout())
	}
	if cfg.GetUnits() != "mm" {
		t.Errorf("GetUnits() = %q, want mm", cfg.GetUnits())
	}
}

func TestLoadSearchConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "search.yaml", `{}`, ".json extension"},
		{"bad json", "bad.json", `{"workers": `, "failed to parse"},
		{"bad range", "range.json", `{"l_range": "-80:75"}`, "l_range"},
		{"zero step", "step.json", `{"u_range": "-45:40:0"}`, "u_range"},
		{"negative workers", "workers.json", `{"workers": -1}`, "workers"},
		{"bad timeout", "timeout.json", `{"timeout": "soon"}`, "timeout"},
		{"negative timeout", "neg.json", `{"timeout": "-1s"}`, "timeout"},
		{"bad units", "units.json", `{"units": "furlong"}`, "invalid units"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			_, err := LoadSearchConfig(path)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadSearchConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetGrid() != kinematics.DefaultGrid() {
		t.Errorf("defaults file grid = %+v, want default grid", cfg.GetGrid())
	}
	if cfg.GetUnits() != "m" {
		t.Errorf("defaults file units = %q, want m", cfg.GetUnits())
	}
}
