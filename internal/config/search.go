package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/armkin/internal/kinematics"
	"github.com/banshee-data/armkin/internal/units"
)

// DefaultConfigPath is the path to the canonical search defaults file.
const DefaultConfigPath = "config/search.defaults.json"

// SearchConfig holds the inverse search and I/O settings. Every field is
// optional; the Get* methods fall back to built-in defaults, which reproduce
// the fixed 5 degree grid.
type SearchConfig struct {
	// Grid ranges as "min:max:step" in degrees, inclusive of max.
	SRange *string `json:"s_range,omitempty"`
	LRange *string `json:"l_range,omitempty"`
	URange *string `json:"u_range,omitempty"`

	// Workers is the number of search goroutines; 0 means one per CPU.
	Workers *int `json:"workers,omitempty"`

	// Timeout bounds a single inverse search, duration string like "30s".
	// Empty or "0s" disables it.
	Timeout *string `json:"timeout,omitempty"`

	// Units for points read and printed at the edges (m, cm, mm).
	Units *string `json:"units,omitempty"`
}

// Helper functions to create pointers
func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// EmptySearchConfig returns a SearchConfig with all fields set to nil.
func EmptySearchConfig() *SearchConfig {
	return &SearchConfig{}
}

// DefaultSearchConfig returns a config with every field populated with its default.
func DefaultSearchConfig() *SearchConfig {
	g := kinematics.DefaultGrid()
	return &SearchConfig{
		SRange:  ptrString(g.S.String()),
		LRange:  ptrString(g.L.String()),
		URange:  ptrString(g.U.String()),
		Workers: ptrInt(0),
		Timeout: ptrString("0s"),
		Units:   ptrString(units.Meters),
	}
}

// LoadSearchConfig loads a SearchConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file keep their defaults, so partial configs are safe.
func LoadSearchConfig(path string) (*SearchConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySearchConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical search defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *SearchConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/tools/<tool>/
	}
	for _, path := range candidates {
		if cfg, err := LoadSearchConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *SearchConfig) Validate() error {
	for _, r := range []struct {
		name string
		val  *string
	}{{"s_range", c.SRange}, {"l_range", c.LRange}, {"u_range", c.URange}} {
		if r.val == nil {
			continue
		}
		if _, err := kinematics.ParseRange(*r.val); err != nil {
			return fmt.Errorf("invalid %s %q: %w", r.name, *r.val, err)
		}
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	if c.Timeout != nil && *c.Timeout != "" {
		d, err := time.ParseDuration(*c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", *c.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("timeout must be non-negative, got %s", *c.Timeout)
		}
	}

	if c.Units != nil {
		if err := units.Validate(*c.Units); err != nil {
			return err
		}
	}

	return nil
}

func rangeOr(s *string, def kinematics.Range) kinematics.Range {
	if s == nil {
		return def
	}
	r, err := kinematics.ParseRange(*s)
	if err != nil {
		return def // default on parse error
	}
	return r
}

// GetGrid returns the configured search grid, falling back per axis to the
// default grid.
func (c *SearchConfig) GetGrid() kinematics.Grid {
	def := kinematics.DefaultGrid()
	return kinematics.Grid{
		S: rangeOr(c.SRange, def.S),
		L: rangeOr(c.LRange, def.L),
		U: rangeOr(c.URange, def.U),
	}
}

// GetWorkers returns the workers value or the default (0, one per CPU).
func (c *SearchConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetTimeout parses and returns the Timeout as a time.Duration; 0 means none.
func (c *SearchConfig) GetTimeout() time.Duration {
	if c.Timeout == nil || *c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.Timeout)
	if err != nil {
		return 0 // default on parse error
	}
	return d
}

// GetUnits returns the units value or the default (meters).
func (c *SearchConfig) GetUnits() string {
	if c.Units == nil {
		return units.Meters
	}
	return *c.Units
}

// Solver builds a kinematics.Solver from the config.
func (c *SearchConfig) Solver() *kinematics.Solver {
	return &kinematics.Solver{Grid: c.GetGrid(), Workers: c.GetWorkers()}
}
