// Package output renders CLI status lines and tables
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer handles formatted output to the terminal
type Printer struct {
	out       io.Writer
	useColors bool
}

func NewPrinter(out io.Writer, useColors bool) *Printer {
	return &Printer{out: out, useColors: useColors}
}

// Header prints a bold section title
func (p *Printer) Header(title string) {
	if p.useColors {
		color.New(color.Bold, color.FgCyan).Fprintf(p.out, "\n%s\n", title)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", title)
}

// Status prints a neutral status line
func (p *Printer) Status(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Success prints a green line
func (p *Printer) Success(msg string) {
	if p.useColors {
		color.New(color.FgGreen, color.Bold).Fprintln(p.out, msg)
		return
	}
	fmt.Fprintln(p.out, msg)
}

// Failure prints a red line
func (p *Printer) Failure(msg string) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintln(p.out, msg)
		return
	}
	fmt.Fprintln(p.out, msg)
}

// Table starts a table that renders to the printer's writer
func (p *Printer) Table(headers []string) *Table {
	return NewTableWithWriter(p.out, headers)
}
