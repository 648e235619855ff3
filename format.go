package main

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/gen2brain/avif"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type EncodeOptions struct {
	Quality      int
	QualityAlpha int
	Speed        int
}

// Strategy encodes decoded raster data into one output format. Strategies
// hold no mutable state and are safe to reuse across files.
type Strategy struct {
	Name   string
	Ext    string
	Encode func(w io.Writer, img image.Image) error
}

// SelectStrategy resolves a requested output format (case-insensitive) to an
// encoding strategy. Unknown formats are rejected here, before any file is
// touched.
func SelectStrategy(format string, opts EncodeOptions) (*Strategy, error) {
	switch strings.ToLower(format) {
	case "png":
		return &Strategy{Name: "png", Ext: "png", Encode: png.Encode}, nil
	case "jpg", "jpeg":
		return &Strategy{Name: "jpg", Ext: "jpg", Encode: func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: opts.Quality})
		}}, nil
	case "gif":
		return &Strategy{Name: "gif", Ext: "gif", Encode: func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}}, nil
	case "bmp":
		return &Strategy{Name: "bmp", Ext: "bmp", Encode: bmp.Encode}, nil
	case "tif", "tiff":
		return &Strategy{Name: "tiff", Ext: "tiff", Encode: func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		}}, nil
	case "avif":
		avifOpts := avif.Options{
			Quality:           opts.Quality,
			QualityAlpha:      opts.QualityAlpha,
			Speed:             opts.Speed,
			ChromaSubsampling: image.YCbCrSubsampleRatio420,
		}
		return &Strategy{Name: "avif", Ext: "avif", Encode: func(w io.Writer, img image.Image) error {
			return avif.Encode(w, img, avifOpts)
		}}, nil
	}

	return nil, fmt.Errorf("unsupported output format %q (supported: %s)",
		format, strings.Join(SupportedFormats(), ", "))
}

// SupportedFormats lists every accepted format identifier, aliases included.
func SupportedFormats() []string {
	return []string{"avif", "bmp", "gif", "jpg", "jpeg", "png", "tif", "tiff"}
}
