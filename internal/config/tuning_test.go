package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	// Test that defaults are set via pointers
	if cfg.MeanPt == nil || *cfg.MeanPt != 0.7 {
		t.Errorf("Expected MeanPt 0.7, got %v", cfg.MeanPt)
	}
	if cfg.MinPt == nil || *cfg.MinPt != 0.15 {
		t.Errorf("Expected MinPt 0.15, got %v", cfg.MinPt)
	}
	if cfg.MaxPt == nil || *cfg.MaxPt != 5.0 {
		t.Errorf("Expected MaxPt 5.0, got %v", cfg.MaxPt)
	}
	if cfg.DatabasePath == nil || *cfg.DatabasePath != "jetbg.db" {
		t.Errorf("Expected DatabasePath 'jetbg.db', got %v", cfg.DatabasePath)
	}

	// Test getter methods
	if cfg.GetSamplingPoints() != 100 {
		t.Errorf("GetSamplingPoints() = %d, want 100", cfg.GetSamplingPoints())
	}
	if cfg.GetMatchR() != 0.2 {
		t.Errorf("GetMatchR() = %f, want 0.2", cfg.GetMatchR())
	}
	if cfg.GetResponseMaxPt() != 80 {
		t.Errorf("GetResponseMaxPt() = %f, want 80", cfg.GetResponseMaxPt())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "mean_pt": 1.1,
  "min_pt": 0.2,
  "max_pt": 3.0,
  "multiplicity": 500,
  "seed": 77,
  "move_y_underflow": true
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetMeanPt() != 1.1 {
		t.Errorf("Expected MeanPt 1.1, got %f", cfg.GetMeanPt())
	}
	if cfg.GetMinPt() != 0.2 || cfg.GetMaxPt() != 3.0 {
		t.Errorf("Expected pt window [0.2, 3.0], got [%f, %f]", cfg.GetMinPt(), cfg.GetMaxPt())
	}
	if cfg.GetMultiplicity() != 500 {
		t.Errorf("Expected Multiplicity 500, got %d", cfg.GetMultiplicity())
	}
	if cfg.GetSeed() != 77 {
		t.Errorf("Expected Seed 77, got %d", cfg.GetSeed())
	}
	if !cfg.GetMoveYUnderflow() {
		t.Error("Expected MoveYUnderflow true")
	}
}

func TestLoadTuningConfigMissing(t *testing.T) {
	_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadTuningConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.json")

	if err := os.WriteFile(configPath, []byte("{ not json"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadTuningConfig(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TuningConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     DefaultTuningConfig(),
			wantErr: false,
		},
		{
			name:    "empty config is valid",
			cfg:     &TuningConfig{},
			wantErr: false,
		},
		{
			name:    "zero mean pt",
			cfg:     &TuningConfig{MeanPt: ptrFloat64(0)},
			wantErr: true,
		},
		{
			name:    "negative min pt",
			cfg:     &TuningConfig{MinPt: ptrFloat64(-0.1)},
			wantErr: true,
		},
		{
			name:    "inverted window",
			cfg:     &TuningConfig{MinPt: ptrFloat64(3), MaxPt: ptrFloat64(2)},
			wantErr: true,
		},
		{
			name:    "max pt below default min pt",
			cfg:     &TuningConfig{MaxPt: ptrFloat64(0.1)},
			wantErr: true,
		},
		{
			name:    "zero sampling points",
			cfg:     &TuningConfig{SamplingPoints: ptrInt(0)},
			wantErr: true,
		},
		{
			name:    "non-positive jet radius",
			cfg:     &TuningConfig{JetR: ptrFloat64(0)},
			wantErr: true,
		},
		{
			name:    "negative events",
			cfg:     &TuningConfig{Events: ptrInt(-1)},
			wantErr: true,
		},
		{
			name:    "no probe constituents",
			cfg:     &TuningConfig{ProbeConstituents: ptrInt(0)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetMatchRFollowsJetR(t *testing.T) {
	tests := []struct {
		name string
		cfg  *TuningConfig
		want float64
	}{
		{name: "default", cfg: &TuningConfig{}, want: 0.2},
		{name: "derived from jet_r", cfg: &TuningConfig{JetR: ptrFloat64(0.6)}, want: 0.3},
		{name: "explicit", cfg: &TuningConfig{JetR: ptrFloat64(0.6), MatchR: ptrFloat64(0.1)}, want: 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.GetMatchR(); got != tt.want {
				t.Errorf("GetMatchR() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg, err := LoadTuningConfig("../../config/tuning.defaults.json")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	// The defaults file and the built-in fallbacks must agree.
	if diff := cmp.Diff(DefaultTuningConfig(), cfg); diff != "" {
		t.Errorf("defaults file mismatch (-builtin +file):\n%s", diff)
	}
}

func TestLoadExampleConfigFile(t *testing.T) {
	cfg, err := LoadTuningConfig("../../config/tuning.example.json")
	if err != nil {
		t.Fatalf("Failed to load example: %v", err)
	}
	if cfg.GetMeanPt() != 0.9 {
		t.Errorf("Expected 0.9, got %f", cfg.GetMeanPt())
	}
	if cfg.GetMultiplicity() != 300 {
		t.Errorf("Expected 300, got %d", cfg.GetMultiplicity())
	}
	if cfg.GetMatchR() != 0.1 {
		t.Errorf("Expected match_r derived from jet_r 0.1, got %f", cfg.GetMatchR())
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	// Partial config: only override mean pt; everything else should keep defaults.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	if err := os.WriteFile(configPath, []byte(`{"mean_pt": 0.5}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load partial config: %v", err)
	}
	if cfg.GetMeanPt() != 0.5 {
		t.Errorf("Expected overridden MeanPt 0.5, got %f", cfg.GetMeanPt())
	}
	if cfg.GetMinPt() != 0.15 {
		t.Errorf("Expected default MinPt 0.15, got %f", cfg.GetMinPt())
	}
	if cfg.GetEvents() != 100 {
		t.Errorf("Expected default Events 100, got %d", cfg.GetEvents())
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadTuningConfig("/some/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json extension, got nil")
	}
}

func TestLoadTuningConfigRejectsLargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "large.json")

	largeData := make([]byte, 2*1024*1024) // 2MB
	if err := os.WriteFile(configPath, largeData, 0644); err != nil {
		t.Fatalf("Failed to write large file: %v", err)
	}

	_, err := LoadTuningConfig(configPath)
	if err == nil {
		t.Error("Expected error for file size > 1MB, got nil")
	}
}

func TestLoadTuningConfigRejectsInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.json")

	if err := os.WriteFile(configPath, []byte(`{"min_pt": 4, "max_pt": 2}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := LoadTuningConfig(configPath); err == nil {
		t.Error("Expected validation error for inverted pt window, got nil")
	}
}
