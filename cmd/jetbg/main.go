package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/jetbg/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches a subcommand and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command, rest := args[0], args[1:]
	var err error
	switch command {
	case "generate":
		err = handleGenerate(rest, stdout, stderr)
	case "subtract":
		err = handleSubtract(rest, stdout, stderr)
	case "embed":
		err = handleEmbed(ctx, rest, stdout, stderr)
	case "rebin":
		err = handleRebin(rest, stdout, stderr)
	case "runs":
		err = handleRuns(rest, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, version.String())
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return 1
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `jetbg - thermal background tools for heavy-ion jet studies

Usage: jetbg <command> [options]

Commands:
  generate   Sample a thermal particle event and summarise its pt spectrum
  subtract   Sample an event and subtract the thermal background from it
  embed      Embed hard probes into background and measure the jet response
  rebin      Rebin a response histogram and write it as YODA to stdout
  runs       List recorded runs
  version    Show jetbg version
  help       Show this help message

Common Flags:
  -config <file>   Tuning JSON (default: built-in values, see config/tuning.defaults.json)
  -seed <n>        Random seed; 0 seeds from the runtime
  -db <file>       Record the run in this SQLite database

Examples:
  jetbg generate -n 500 -png out/pt.png
  jetbg subtract -config config/tuning.example.json -db jetbg.db
  jetbg embed -events 50 -png out/embed -db jetbg.db
  jetbg rebin -nx 4 -ny 4 -move-underflow > rebinned.yoda
  jetbg runs -db jetbg.db -limit 10`)
}
