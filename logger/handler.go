package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	White  = "\033[37m"
)

type Options struct {
	Output       io.Writer
	TimeFormat   string
	Level        slog.Level
	EnableColors bool
	ShowTime     bool
}

func DefaultOptions() *Options {
	return &Options{
		Output:       os.Stdout,
		TimeFormat:   "2006-01-02 15:04:05.000",
		Level:        slog.LevelInfo,
		EnableColors: isatty.IsTerminal(os.Stdout.Fd()),
		ShowTime:     true,
	}
}

// Handler is a line-oriented slog handler for console output. Attributes and
// groups are accepted but flattened into the message line.
type Handler struct {
	opts  *Options
	mu    *sync.Mutex
	attrs []slog.Attr
}

func NewHandler(opts *Options) *Handler {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Handler{
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	h2.attrs = append(h2.attrs, attrs...)
	return h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return h.clone()
}

func (h *Handler) clone() *Handler {
	h2 := &Handler{
		opts:  h.opts,
		mu:    h.mu,
		attrs: make([]slog.Attr, len(h.attrs)),
	}
	copy(h2.attrs, h.attrs)
	return h2
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	levelColors := map[slog.Level]string{
		slog.LevelDebug: Cyan,
		slog.LevelInfo:  Green,
		slog.LevelWarn:  Yellow,
		slog.LevelError: Red,
	}

	var builder strings.Builder

	if h.opts.ShowTime {
		if h.opts.EnableColors {
			builder.WriteString(Blue)
		}
		builder.WriteString(record.Time.Format(h.opts.TimeFormat))
		if h.opts.EnableColors {
			builder.WriteString(Reset)
		}
		builder.WriteString(" ")
	}

	levelStr := fmt.Sprintf("%-5s", strings.ToUpper(record.Level.String()))
	if h.opts.EnableColors {
		builder.WriteString(levelColors[record.Level])
		builder.WriteString(Bold)
	}
	builder.WriteString(levelStr)
	if h.opts.EnableColors {
		builder.WriteString(Reset)
	}
	builder.WriteString(" ")

	builder.WriteString(record.Message)

	appendAttr := func(a slog.Attr) bool {
		builder.WriteString(fmt.Sprintf(" %s=%v", a.Key, a.Value.Any()))
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	record.Attrs(appendAttr)

	_, err := fmt.Fprintln(h.opts.Output, builder.String())
	return err
}

func NewLogger(opts *Options) *slog.Logger {
	return slog.New(NewHandler(opts))
}
