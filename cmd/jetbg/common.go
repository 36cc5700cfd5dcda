package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/banshee-data/jetbg/internal/background"
	"github.com/banshee-data/jetbg/internal/config"
	"github.com/banshee-data/jetbg/internal/db"
	"github.com/banshee-data/jetbg/internal/monitoring"
)

// commonFlags are shared by the commands that build a model.
type commonFlags struct {
	configPath string
	seed       uint64
	dbPath     string
	verbose    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Tuning JSON file (default: built-in values)")
	fs.Uint64Var(&c.seed, "seed", 0, "Random seed (default: seed from config, 0 draws one)")
	fs.StringVar(&c.dbPath, "db", "", "Record the run in this SQLite database")
	fs.BoolVar(&c.verbose, "v", false, "Log per-particle subtraction decisions")
}

// load reads the tuning config, applies -seed, and pins a random seed when
// none is configured so the recorded run can be reproduced.
func (c *commonFlags) load(fs *flag.FlagSet, stderr io.Writer) (*config.TuningConfig, error) {
	cfg := config.EmptyTuningConfig()
	if c.configPath != "" {
		loaded, err := config.LoadTuningConfig(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if isFlagSet(fs, "seed") {
		seed := c.seed
		cfg.Seed = &seed
	}
	if cfg.GetSeed() == 0 {
		seed := rand.Uint64() | 1
		cfg.Seed = &seed
	}
	setupLogging(cfg, c.verbose, stderr)
	return cfg, nil
}

func setupLogging(cfg *config.TuningConfig, verbose bool, stderr io.Writer) {
	w := background.LogWriters{Ops: stderr}
	if cfg.GetLogSubtractionDiag() || verbose {
		w.Diag = stderr
	}
	if verbose {
		w.Trace = stderr
	}
	background.SetLogWriters(w)

	logger := log.New(stderr, "", log.LstdFlags)
	monitoring.SetLogger(logger.Printf)
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func intOr(v, fallback int) int {
	if v < 0 {
		return fallback
	}
	return v
}

func floatOr(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

func configJSON(cfg *config.TuningConfig) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// recordRun stores r in the database at path, creating it if needed.
func recordRun(path string, r *db.Run, stdout io.Writer) error {
	database, err := db.NewDB(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := database.RecordRun(r); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "recorded run %s in %s\n", r.ID, path)
	return nil
}

// writeFile creates path (and its directory) and hands it to render.
func writeFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
