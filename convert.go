package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"imgconv/logger"

	_ "golang.org/x/image/webp"
)

// Outcome is the result of one conversion attempt.
type Outcome struct {
	Input  string
	Output string
	Err    error
}

// OutputPath strips the final extension from input, if any, and appends ext.
func OutputPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
}

type Processor struct {
	Strategy *Strategy
	Console  *logger.Console
	Workers  int
}

type BatchStats struct {
	mu         sync.Mutex
	TotalFiles int
	Succeeded  int
	Failed     int
}

func NewProcessor(cfg *Config, strategy *Strategy, console *logger.Console) *Processor {
	return &Processor{
		Strategy: strategy,
		Console:  console,
		Workers:  cfg.Workers,
	}
}

// Run converts the given files and runs the batch to completion: a failing
// file is counted and reported, never allowed to stop the rest.
func Run(cfg *Config, console *logger.Console) error {
	strategy, err := SelectStrategy(cfg.OutputFormat, cfg.GetEncodeOptions())
	if err != nil {
		return err
	}

	files, err := ResolveArgs(cfg.InputArgs, cfg.BaseDir, console)
	if err != nil {
		return err
	}

	console.Log("Files: [%s]", strings.Join(files, ", "))

	if len(files) == 0 {
		console.Warn("No files found to convert")
		return nil
	}

	processor := NewProcessor(cfg, strategy, console)

	timer := console.StartTimer("Batch conversion")
	stats := processor.Run(files)
	timer.End()

	processor.DisplaySummary(stats)

	if stats.Failed == 0 {
		console.Success("All conversions completed successfully")
	}

	return nil
}

func (p *Processor) Run(files []string) *BatchStats {
	stats := &BatchStats{TotalFiles: len(files)}

	p.Console.Info("Starting batch conversion of %d files to %s (workers: %d)",
		len(files), strings.ToUpper(p.Strategy.Name), p.workerCount())

	bar := p.Console.NewProgressBar(int64(len(files)), "Converting images")

	jobs := make(chan string)
	var wg sync.WaitGroup

	for w := 0; w < p.workerCount(); w++ {
		wg.Add(1)
		go p.worker(jobs, stats, &wg, bar)
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)

	wg.Wait()
	bar.Complete()

	return stats
}

func (p *Processor) workerCount() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}

func (p *Processor) worker(jobs <-chan string, stats *BatchStats, wg *sync.WaitGroup, bar *logger.ProgressBar) {
	defer wg.Done()

	for input := range jobs {
		outcome := p.ConvertFile(input)

		stats.mu.Lock()
		if outcome.Err != nil {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
		stats.mu.Unlock()

		p.notify(outcome)
		bar.Increment(1)
	}
}

func (p *Processor) notify(outcome Outcome) {
	if outcome.Err != nil {
		p.Console.Error("Error converting %s: %v", outcome.Input, outcome.Err)
		return
	}
	p.Console.Success("Conversion successful: %s -> %s", outcome.Input, outcome.Output)
}

// ConvertFile converts one input file and reports the result as an Outcome.
// Faults of any kind are contained here so a single bad file cannot abort the
// batch.
func (p *Processor) ConvertFile(input string) (outcome Outcome) {
	outcome = Outcome{Input: input, Output: OutputPath(input, p.Strategy.Ext)}

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("unexpected fault: %v", r)
		}
	}()

	outcome.Err = p.convert(input, outcome.Output)
	return outcome
}

// convert decodes inputPath and encodes it to outputPath. The encoded bytes
// go to a temporary file first and are renamed into place only on success, so
// a failure never leaves a partial output file behind.
func (p *Processor) convert(inputPath, outputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}

	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("error decoding image: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(outputPath), ".imgconv-*."+p.Strategy.Ext)
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempPath := tempFile.Name()

	if err := p.Strategy.Encode(tempFile, img); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("error encoding to %s: %w", strings.ToUpper(p.Strategy.Name), err)
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("error writing output file: %w", err)
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("error renaming output file: %w", err)
	}

	return nil
}

func (p *Processor) DisplaySummary(stats *BatchStats) {
	table := p.Console.NewTable([]string{"Metric", "Value"})
	table.AddRow("Converted files", fmt.Sprintf("%d/%d", stats.Succeeded, stats.TotalFiles))
	table.AddRow("Failed files", fmt.Sprintf("%d", stats.Failed))
	table.AddRow("Output format", strings.ToUpper(p.Strategy.Name))

	p.Console.Info("Conversion Summary:")
	table.Print()
}
