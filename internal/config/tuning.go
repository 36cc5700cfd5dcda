package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
// The same JSON is consumed by every jetbg subcommand; commands read only
// the fields they need.
type TuningConfig struct {
	// Thermal background params
	MeanPt         *float64 `json:"mean_pt,omitempty"`
	MinPt          *float64 `json:"min_pt,omitempty"`
	MaxPt          *float64 `json:"max_pt,omitempty"`
	SamplingPoints *int     `json:"sampling_points,omitempty"`

	// Event generation params
	Multiplicity *int     `json:"multiplicity,omitempty"`
	MaxEta       *float64 `json:"max_eta,omitempty"`
	Seed         *uint64  `json:"seed,omitempty"`

	// Jet params
	JetR     *float64 `json:"jet_r,omitempty"`
	JetPtMin *float64 `json:"jet_pt_min,omitempty"`
	MatchR   *float64 `json:"match_r,omitempty"`

	// Embedding params (optional)
	Events             *int     `json:"events,omitempty"`
	ProbePt            *float64 `json:"probe_pt,omitempty"`
	ProbeSpread        *float64 `json:"probe_spread,omitempty"`
	ProbeConstituents  *int     `json:"probe_constituents,omitempty"`
	ResponseBins       *int     `json:"response_bins,omitempty"`
	ResponseMaxPt      *float64 `json:"response_max_pt,omitempty"`
	MoveYUnderflow     *bool    `json:"move_y_underflow,omitempty"`
	DatabasePath       *string  `json:"database_path,omitempty"`
	LogSubtractionDiag *bool    `json:"log_subtraction_diag,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated
// from the built-in fallbacks of the Get* methods.
func DefaultTuningConfig() *TuningConfig {
	c := EmptyTuningConfig()
	return &TuningConfig{
		MeanPt:             ptrFloat64(c.GetMeanPt()),
		MinPt:              ptrFloat64(c.GetMinPt()),
		MaxPt:              ptrFloat64(c.GetMaxPt()),
		SamplingPoints:     ptrInt(c.GetSamplingPoints()),
		Multiplicity:       ptrInt(c.GetMultiplicity()),
		MaxEta:             ptrFloat64(c.GetMaxEta()),
		Seed:               ptrUint64(c.GetSeed()),
		JetR:               ptrFloat64(c.GetJetR()),
		JetPtMin:           ptrFloat64(c.GetJetPtMin()),
		MatchR:             ptrFloat64(c.GetMatchR()),
		Events:             ptrInt(c.GetEvents()),
		ProbePt:            ptrFloat64(c.GetProbePt()),
		ProbeSpread:        ptrFloat64(c.GetProbeSpread()),
		ProbeConstituents:  ptrInt(c.GetProbeConstituents()),
		ResponseBins:       ptrInt(c.GetResponseBins()),
		ResponseMaxPt:      ptrFloat64(c.GetResponseMaxPt()),
		MoveYUnderflow:     ptrBool(c.GetMoveYUnderflow()),
		DatabasePath:       ptrString(c.GetDatabasePath()),
		LogSubtractionDiag: ptrBool(c.GetLogSubtractionDiag()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
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

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,          // from cmd/
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // deeper packages
		"../../../../" + DefaultConfigPath, // even deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
// Only fields that are set are checked; the pt window is checked against
// the effective values so a partial file cannot invert it.
func (c *TuningConfig) Validate() error {
	if c.MeanPt != nil && *c.MeanPt <= 0 {
		return fmt.Errorf("mean_pt must be positive, got %f", *c.MeanPt)
	}
	if c.MinPt != nil && *c.MinPt < 0 {
		return fmt.Errorf("min_pt must be non-negative, got %f", *c.MinPt)
	}
	if (c.MinPt != nil || c.MaxPt != nil) && c.GetMinPt() >= c.GetMaxPt() {
		return fmt.Errorf("min_pt (%f) must be below max_pt (%f)", c.GetMinPt(), c.GetMaxPt())
	}
	if c.SamplingPoints != nil && *c.SamplingPoints < 1 {
		return fmt.Errorf("sampling_points must be at least 1, got %d", *c.SamplingPoints)
	}
	if c.Multiplicity != nil && *c.Multiplicity < 0 {
		return fmt.Errorf("multiplicity must be non-negative, got %d", *c.Multiplicity)
	}
	if c.MaxEta != nil && *c.MaxEta <= 0 {
		return fmt.Errorf("max_eta must be positive, got %f", *c.MaxEta)
	}
	if c.JetR != nil && *c.JetR <= 0 {
		return fmt.Errorf("jet_r must be positive, got %f", *c.JetR)
	}
	if c.MatchR != nil && *c.MatchR <= 0 {
		return fmt.Errorf("match_r must be positive, got %f", *c.MatchR)
	}
	if c.Events != nil && *c.Events < 0 {
		return fmt.Errorf("events must be non-negative, got %d", *c.Events)
	}
	if c.ProbeConstituents != nil && *c.ProbeConstituents < 1 {
		return fmt.Errorf("probe_constituents must be at least 1, got %d", *c.ProbeConstituents)
	}
	if c.ResponseBins != nil && *c.ResponseBins < 1 {
		return fmt.Errorf("response_bins must be at least 1, got %d", *c.ResponseBins)
	}
	return nil
}

// GetMeanPt returns the mean_pt value or the default.
func (c *TuningConfig) GetMeanPt() float64 {
	if c.MeanPt == nil {
		return 0.7
	}
	return *c.MeanPt
}

// GetMinPt returns the min_pt value or the default.
func (c *TuningConfig) GetMinPt() float64 {
	if c.MinPt == nil {
		return 0.15
	}
	return *c.MinPt
}

// GetMaxPt returns the max_pt value or the default.
func (c *TuningConfig) GetMaxPt() float64 {
	if c.MaxPt == nil {
		return 5.0
	}
	return *c.MaxPt
}

// GetSamplingPoints returns the sampling_points value or the default.
func (c *TuningConfig) GetSamplingPoints() int {
	if c.SamplingPoints == nil {
		return 100
	}
	return *c.SamplingPoints
}

// GetMultiplicity returns the multiplicity value or the default.
func (c *TuningConfig) GetMultiplicity() int {
	if c.Multiplicity == nil {
		return 200
	}
	return *c.Multiplicity
}

// GetMaxEta returns the max_eta value or the default.
func (c *TuningConfig) GetMaxEta() float64 {
	if c.MaxEta == nil {
		return 1.0
	}
	return *c.MaxEta
}

// GetSeed returns the seed value or the default. Zero means "seed from the
// runtime source".
func (c *TuningConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetJetR returns the jet_r value or the default.
func (c *TuningConfig) GetJetR() float64 {
	if c.JetR == nil {
		return 0.4
	}
	return *c.JetR
}

// GetJetPtMin returns the jet_pt_min value or the default.
func (c *TuningConfig) GetJetPtMin() float64 {
	if c.JetPtMin == nil {
		return 5.0
	}
	return *c.JetPtMin
}

// GetMatchR returns the match_r value or the default.
func (c *TuningConfig) GetMatchR() float64 {
	if c.MatchR == nil {
		return c.GetJetR() / 2
	}
	return *c.MatchR
}

// GetEvents returns the events value or the default.
func (c *TuningConfig) GetEvents() int {
	if c.Events == nil {
		return 100
	}
	return *c.Events
}

// GetProbePt returns the probe_pt value or the default.
func (c *TuningConfig) GetProbePt() float64 {
	if c.ProbePt == nil {
		return 40.0
	}
	return *c.ProbePt
}

// GetProbeSpread returns the probe_spread value or the default.
func (c *TuningConfig) GetProbeSpread() float64 {
	if c.ProbeSpread == nil {
		return 0.1
	}
	return *c.ProbeSpread
}

// GetProbeConstituents returns the probe_constituents value or the default.
func (c *TuningConfig) GetProbeConstituents() int {
	if c.ProbeConstituents == nil {
		return 4
	}
	return *c.ProbeConstituents
}

// GetResponseBins returns the response_bins value or the default.
func (c *TuningConfig) GetResponseBins() int {
	if c.ResponseBins == nil {
		return 40
	}
	return *c.ResponseBins
}

// GetResponseMaxPt returns the response_max_pt value or the default.
func (c *TuningConfig) GetResponseMaxPt() float64 {
	if c.ResponseMaxPt == nil {
		return 2 * c.GetProbePt()
	}
	return *c.ResponseMaxPt
}

// GetMoveYUnderflow returns the move_y_underflow value or the default.
func (c *TuningConfig) GetMoveYUnderflow() bool {
	if c.MoveYUnderflow == nil {
		return false
	}
	return *c.MoveYUnderflow
}

// GetDatabasePath returns the database_path value or the default.
func (c *TuningConfig) GetDatabasePath() string {
	if c.DatabasePath == nil || *c.DatabasePath == "" {
		return "jetbg.db"
	}
	return *c.DatabasePath
}

// GetLogSubtractionDiag returns the log_subtraction_diag value or the default.
func (c *TuningConfig) GetLogSubtractionDiag() bool {
	if c.LogSubtractionDiag == nil {
		return false
	}
	return *c.LogSubtractionDiag
}
