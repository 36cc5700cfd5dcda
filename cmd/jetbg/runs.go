package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/jetbg/internal/config"
	"github.com/banshee-data/jetbg/internal/db"
)

func handleRuns(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Tuning JSON file (default: built-in values)")
	dbPath := fs.String("db", "", "SQLite database (default: database_path from config)")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	id := fs.String("id", "", "Show a single run with its configuration")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	path := *dbPath
	if path == "" {
		path = cfg.GetDatabasePath()
	}

	database, err := db.NewDB(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if *id != "" {
		r, err := database.GetRun(*id)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, r.String())
		fmt.Fprintf(stdout, "config: %s\n", r.ConfigJSON)
		if r.Notes != "" {
			fmt.Fprintf(stdout, "notes: %s\n", r.Notes)
		}
		return nil
	}

	runs, err := database.ListRuns(*limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no runs recorded")
		return nil
	}
	for i := range runs {
		fmt.Fprintln(stdout, runs[i].String())
	}
	return nil
}
