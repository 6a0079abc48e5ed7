package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes the user-facing progress lines of a run
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter prints to stdout/stderr; colors follow fatih/color's detection
// (NO_COLOR, dumb terminals, non-tty output)
func NewPrinter() *Printer {
	return &Printer{
		out:       os.Stdout,
		err:       os.Stderr,
		useColors: !color.NoColor,
	}
}

// Info prints an informational message
func (p *Printer) Info(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, format+"\n", args...)
	}
}

// Success prints a success message
func (p *Printer) Success(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
	}
}

// Error prints a failed run's error to stderr
func (p *Printer) Error(err error) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", err)
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", err)
	}
}
