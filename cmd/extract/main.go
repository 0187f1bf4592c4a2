package main

import (
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/reciptera/reciptera/internal/extraction"
)

// Reads OCR text from a file (or stdin when no argument is given), runs the
// extraction engine, and prints the result as JSON.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	pretty := flag.Bool("pretty", false, "indent the JSON output")
	flag.Parse()

	var (
		raw []byte
		err error
	)
	if flag.NArg() > 0 {
		raw, err = os.ReadFile(flag.Arg(0))
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		logger.Error("read input", "error", err)
		os.Exit(1)
	}

	res := extraction.NewEngine().Extract(string(raw))

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
