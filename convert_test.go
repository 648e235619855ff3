package main

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, testImage(), &jpeg.Options{Quality: 90}))
}

func newTestProcessor(t *testing.T, format string, workers int, buf *bytes.Buffer) *Processor {
	t.Helper()
	strategy, err := SelectStrategy(format, EncodeOptions{Quality: 80, QualityAlpha: 80, Speed: 6})
	require.NoError(t, err)
	return &Processor{
		Strategy: strategy,
		Console:  testConsole(buf),
		Workers:  workers,
	}
}

func TestConvertFileProducesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.jpg")
	writeJPEG(t, input)

	p := newTestProcessor(t, "png", 1, &bytes.Buffer{})
	outcome := p.ConvertFile(input)

	require.NoError(t, outcome.Err)
	assert.Equal(t, input, outcome.Input)
	assert.Equal(t, filepath.Join(dir, "photo.png"), outcome.Output)

	f, err := os.Open(outcome.Output)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)
}

func TestConvertFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.jpg")
	writeJPEG(t, input)

	p := newTestProcessor(t, "png", 1, &bytes.Buffer{})

	require.NoError(t, p.ConvertFile(input).Err)
	first, err := os.ReadFile(filepath.Join(dir, "photo.png"))
	require.NoError(t, err)

	require.NoError(t, p.ConvertFile(input).Err)
	second, err := os.ReadFile(filepath.Join(dir, "photo.png"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.jpg")
	require.NoError(t, os.WriteFile(input, []byte("not an image"), 0o644))

	p := newTestProcessor(t, "png", 1, &bytes.Buffer{})
	outcome := p.ConvertFile(input)

	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "decoding")

	_, err := os.Stat(filepath.Join(dir, "bad.png"))
	assert.True(t, os.IsNotExist(err), "no output file may exist after a decode failure")

	leftovers, err := filepath.Glob(filepath.Join(dir, ".imgconv-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "no temporary files may be left behind")
}

func TestMissingInputIsAFailureOutcome(t *testing.T) {
	dir := t.TempDir()

	p := newTestProcessor(t, "png", 1, &bytes.Buffer{})
	outcome := p.ConvertFile(filepath.Join(dir, "ghost.jpg"))

	require.Error(t, outcome.Err)
	_, err := os.Stat(filepath.Join(dir, "ghost.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestBatchContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.jpg")
	good := filepath.Join(dir, "good.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))
	writeJPEG(t, good)

	var buf bytes.Buffer
	p := newTestProcessor(t, "png", 1, &buf)
	stats := p.Run([]string{bad, good})

	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, 1, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)

	assert.FileExists(t, filepath.Join(dir, "good.png"))

	out := buf.String()
	assert.Contains(t, out, "Error converting "+bad)
	assert.Contains(t, out, "Conversion successful: "+good)
}

func TestSingleWorkerPreservesBatchOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.jpg")
	second := filepath.Join(dir, "second.jpg")
	writeJPEG(t, first)
	writeJPEG(t, second)

	var buf bytes.Buffer
	p := newTestProcessor(t, "png", 1, &buf)
	p.Run([]string{first, second})

	out := buf.String()
	assert.Less(t, strings.Index(out, "first.jpg"), strings.Index(out, "second.jpg"))
}

func TestParallelBatchConvertsEverything(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		path := filepath.Join(dir, name)
		writeJPEG(t, path)
		files = append(files, path)
	}

	p := newTestProcessor(t, "bmp", 4, &bytes.Buffer{})
	stats := p.Run(files)

	assert.Equal(t, 4, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)
	for _, name := range []string{"a.bmp", "b.bmp", "c.bmp", "d.bmp"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestRunRejectsUnknownFormatBeforeAnyWork(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.png")
	writeJPEG(t, input)

	cfg := &Config{
		OutputFormat: "webp",
		InputArgs:    []string{`.*\.png`},
		BaseDir:      dir,
		Workers:      1,
		Quality:      80,
	}

	var buf bytes.Buffer
	err := Run(cfg, testConsole(&buf))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
	assert.NotContains(t, buf.String(), "Files:")
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "x.jpg"))
	writeJPEG(t, filepath.Join(dir, "y.jpg"))

	cfg := &Config{
		OutputFormat: "png",
		InputArgs:    []string{`.*\.jpg`},
		BaseDir:      dir,
		Workers:      1,
		Quality:      80,
	}

	var buf bytes.Buffer
	require.NoError(t, Run(cfg, testConsole(&buf)))

	assert.FileExists(t, filepath.Join(dir, "x.png"))
	assert.FileExists(t, filepath.Join(dir, "y.png"))

	out := buf.String()
	assert.Contains(t, out, "Files: [")
	assert.Contains(t, out, "x.jpg")
	assert.Contains(t, out, "y.jpg")
	assert.Contains(t, out, "Conversion Summary")
}

func TestRunWithNoMatchesWarnsAndSucceeds(t *testing.T) {
	cfg := &Config{
		OutputFormat: "png",
		InputArgs:    []string{`nothing-here-.*\.jpg`},
		BaseDir:      t.TempDir(),
		Workers:      1,
		Quality:      80,
	}

	var buf bytes.Buffer
	require.NoError(t, Run(cfg, testConsole(&buf)))
	assert.Contains(t, buf.String(), "No files found to convert")
}
