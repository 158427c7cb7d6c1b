package config

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"

	"github.com/banshee-data/mapzones/internal/fsutil"
	"github.com/banshee-data/mapzones/internal/papers"
	"github.com/banshee-data/mapzones/internal/zones"
)

// DefaultConfigPath is the path to the canonical labelling defaults file.
const DefaultConfigPath = "config/regions.defaults.json"

const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// RegionConfig holds the parameters for a labelling run. Fields left out of
// the JSON fall back to the defaults returned by the Get* methods.
type RegionConfig struct {
	// Grid params
	HexRadius    *float64 `json:"hex_radius,omitempty"`
	AnchorOrigin *bool    `json:"anchor_origin,omitempty"`

	// Histogram params
	KeywordThreshold  *int     `json:"keyword_threshold,omitempty"`
	MaxKeywords       *int     `json:"max_keywords,omitempty"`
	CanonicalPrefixes []string `json:"canonical_prefixes,omitempty"`
	Workers           *int     `json:"workers,omitempty"`

	// Growth params
	GrowthCheck *string `json:"growth_check,omitempty"` // "source" or "target"

	// Logging
	ProgressEvery *int `json:"progress_every,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRegionConfig returns a RegionConfig with all fields unset.
func EmptyRegionConfig() *RegionConfig {
	return &RegionConfig{}
}

// DefaultRegionConfig returns a RegionConfig with every field populated
// from the built-in defaults.
func DefaultRegionConfig() *RegionConfig {
	return &RegionConfig{
		HexRadius:         ptrFloat64(zones.DefaultHexRadius),
		AnchorOrigin:      ptrBool(false),
		KeywordThreshold:  ptrInt(zones.DefaultKeywordThreshold),
		MaxKeywords:       ptrInt(zones.DefaultMaxKeywords),
		CanonicalPrefixes: []string{"Higgs"},
		Workers:           ptrInt(0),
		GrowthCheck:       ptrString(string(zones.GrowthCheckSource)),
		ProgressEvery:     ptrInt(10000),
	}
}

// LoadRegionConfig loads a RegionConfig from a JSON file on disk.
// The file must have a .json extension and be under 1MB.
func LoadRegionConfig(path string) (*RegionConfig, error) {
	return LoadRegionConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadRegionConfigFS is LoadRegionConfig reading through fsys.
func LoadRegionConfigFS(fsys fsutil.FileSystem, path string) (*RegionConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRegionConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded, intended
// for test setup.
func MustLoadDefaultConfig() *RegionConfig {
	return mustLoadDefaultConfig(fsutil.OSFileSystem{})
}

func mustLoadDefaultConfig(fsys fsutil.FileSystem) *RegionConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if !fsys.Exists(path) {
			continue
		}
		if cfg, err := LoadRegionConfigFS(fsys, path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set.
func (c *RegionConfig) Validate() error {
	if c.HexRadius != nil {
		r := *c.HexRadius
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 2 {
			return fmt.Errorf("hex_radius must be at least 2, got %v", r)
		}
	}

	if c.KeywordThreshold != nil && *c.KeywordThreshold < 0 {
		return fmt.Errorf("keyword_threshold must be non-negative, got %d", *c.KeywordThreshold)
	}

	if c.MaxKeywords != nil && *c.MaxKeywords < 1 {
		return fmt.Errorf("max_keywords must be at least 1, got %d", *c.MaxKeywords)
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	if c.ProgressEvery != nil && *c.ProgressEvery < 0 {
		return fmt.Errorf("progress_every must be non-negative, got %d", *c.ProgressEvery)
	}

	if c.GrowthCheck != nil {
		switch zones.GrowthCheck(*c.GrowthCheck) {
		case zones.GrowthCheckSource, zones.GrowthCheckTarget:
		default:
			return fmt.Errorf("growth_check must be %q or %q, got %q",
				zones.GrowthCheckSource, zones.GrowthCheckTarget, *c.GrowthCheck)
		}
	}

	for i, p := range c.CanonicalPrefixes {
		if p == "" {
			return fmt.Errorf("canonical_prefixes[%d] is empty", i)
		}
	}

	return nil
}

// GetHexRadius returns the cell radius.
func (c *RegionConfig) GetHexRadius() float64 {
	if c.HexRadius == nil {
		return zones.DefaultHexRadius
	}
	return *c.HexRadius
}

// GetAnchorOrigin reports whether the bounding box is anchored at (0, 0).
func (c *RegionConfig) GetAnchorOrigin() bool {
	if c.AnchorOrigin == nil {
		return false
	}
	return *c.AnchorOrigin
}

// GetKeywordThreshold returns the count a keyword must exceed to be kept.
func (c *RegionConfig) GetKeywordThreshold() int {
	if c.KeywordThreshold == nil {
		return zones.DefaultKeywordThreshold
	}
	return *c.KeywordThreshold
}

// GetMaxKeywords returns the per-cell keyword cap.
func (c *RegionConfig) GetMaxKeywords() int {
	if c.MaxKeywords == nil {
		return zones.DefaultMaxKeywords
	}
	return *c.MaxKeywords
}

// GetCanonicalPrefixes returns the keyword prefixes folded to their stem.
func (c *RegionConfig) GetCanonicalPrefixes() []string {
	if c.CanonicalPrefixes == nil {
		return []string{"Higgs"}
	}
	return c.CanonicalPrefixes
}

func (c *RegionConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetGrowthCheck returns the growth predicate.
func (c *RegionConfig) GetGrowthCheck() zones.GrowthCheck {
	if c.GrowthCheck == nil || *c.GrowthCheck == "" {
		return zones.GrowthCheckSource
	}
	return zones.GrowthCheck(*c.GrowthCheck)
}

func (c *RegionConfig) GetProgressEvery() int {
	if c.ProgressEvery == nil {
		return 10000
	}
	return *c.ProgressEvery
}

// ToParams converts the config into labelling parameters.
func (c *RegionConfig) ToParams() zones.Params {
	return zones.Params{
		HexRadius:        c.GetHexRadius(),
		KeywordThreshold: c.GetKeywordThreshold(),
		MaxKeywords:      c.GetMaxKeywords(),
		Growth:           c.GetGrowthCheck(),
		Workers:          c.GetWorkers(),
		AnchorOrigin:     c.GetAnchorOrigin(),
	}
}

// LoadOptions returns the options used when joining layout and keywords.
func (c *RegionConfig) LoadOptions() papers.LoadOptions {
	return papers.LoadOptions{
		Normalizer:    papers.Normalizer{CanonicalPrefixes: c.GetCanonicalPrefixes()},
		ProgressEvery: c.GetProgressEvery(),
	}
}
