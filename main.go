package main

import (
	"os"

	"imgconv/logger"
)

func main() {
	console := logger.NewConsole(logger.DefaultOptions())

	cfg, err := ParseConfig(os.Args[1:], console)
	if err != nil {
		os.Stderr.WriteString("Configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := Run(cfg, console); err != nil {
		console.Error("Processing error: %v", err)
		os.Exit(1)
	}
}
