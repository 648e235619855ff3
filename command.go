package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"imgconv/logger"
)

type Config struct {
	OutputFormat string
	InputArgs    []string
	BaseDir      string
	Version      string
	Workers      int
	Quality      int
	QualityAlpha int
	Speed        int
}

var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func ParseConfig(args []string, console *logger.Console) (*Config, error) {
	cfg := &Config{Version: Version}

	fs := flag.NewFlagSet("imgconv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.IntVar(&cfg.Workers, "workers", 1, "Number of concurrent workers")
	fs.IntVar(&cfg.Quality, "quality", 80, "Image quality (0-100, higher is better)")
	fs.IntVar(&cfg.QualityAlpha, "quality-alpha", 80, "Alpha channel quality (0-100, AVIF only)")
	fs.IntVar(&cfg.Speed, "speed", 6, "AVIF encoding speed (0-10, lower is better quality but slower)")
	fs.StringVar(&cfg.BaseDir, "dir", ".", "Base directory for pattern matching")

	showVersion := fs.Bool("version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *showVersion {
		console.Log("imgconv version %s (built %s, commit %s)", cfg.Version, BuildDate, GitCommit)
		os.Exit(0)
	}

	rest := fs.Args()
	if len(rest) < 2 {
		printUsage(fs, console)
		return nil, fmt.Errorf("output format and at least one file or pattern required")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.OutputFormat = rest[0]
	cfg.InputArgs = rest[1:]

	return cfg, nil
}

func printUsage(fs *flag.FlagSet, console *logger.Console) {
	console.Info("Usage: imgconv [options] <outputFormat> <fileOrPattern> [<fileOrPattern> ...]")
	console.Info("Options:")

	var buf strings.Builder
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)

	for _, line := range strings.Split(buf.String(), "\n") {
		if line != "" {
			console.Log("  %s", line)
		}
	}
}

func (cfg *Config) validate() error {
	if cfg.Workers < 1 {
		return fmt.Errorf("error: workers must be at least 1")
	}
	if cfg.Quality < 0 || cfg.Quality > 100 {
		return fmt.Errorf("error: quality must be in range 0-100")
	}
	if cfg.QualityAlpha < 0 || cfg.QualityAlpha > 100 {
		return fmt.Errorf("error: alpha quality must be in range 0-100")
	}
	if cfg.Speed < 0 || cfg.Speed > 10 {
		return fmt.Errorf("error: encoding speed must be in range 0-10")
	}
	return nil
}

func (cfg *Config) GetEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Quality:      cfg.Quality,
		QualityAlpha: cfg.QualityAlpha,
		Speed:        cfg.Speed,
	}
}
