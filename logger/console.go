package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Console is the shared notification sink for the process: every component
// that completes or fails a unit of work reports through the same instance.
type Console struct {
	Logger    *slog.Logger
	Colorized bool
	out       io.Writer
}

func NewConsole(opts *Options) *Console {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Console{
		Logger:    NewLogger(opts),
		Colorized: opts.EnableColors,
		out:       opts.Output,
	}
}

func (c *Console) Success(format string, args ...interface{}) {
	msg := "✓ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Green + Bold + msg + Reset
	}
	c.Logger.Info(msg)
}

func (c *Console) Info(format string, args ...interface{}) {
	msg := "ℹ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Blue + Bold + msg + Reset
	}
	c.Logger.Info(msg)
}

func (c *Console) Log(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = White + msg + Reset
	}
	c.Logger.Info(msg)
}

func (c *Console) Warn(format string, args ...interface{}) {
	msg := "⚠ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Yellow + Bold + msg + Reset
	}
	c.Logger.Warn(msg)
}

func (c *Console) Error(format string, args ...interface{}) {
	msg := "✖ " + fmt.Sprintf(format, args...)
	if c.Colorized {
		msg = Red + Bold + msg + Reset
	}
	c.Logger.Error(msg)
}

func (c *Console) StartTimer(name string) *Timer {
	return &Timer{
		Name:      name,
		StartTime: time.Now(),
		Console:   c,
	}
}

func (c *Console) NewProgressBar(total int64, label string) *ProgressBar {
	return NewProgressBar(total, label, c.out)
}

func (c *Console) NewTable(headers []string) *Table {
	return NewTable(headers, c.out)
}
