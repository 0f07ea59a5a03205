package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"wpm/internal/shared"
)

// Printer writes human readable progress lines. A nil Printer discards
// everything, which is how quiet mode is implemented.
type Printer struct {
	out         io.Writer
	interactive bool
}

func NewPrinter(out io.Writer, interactive bool) *Printer {
	return &Printer{out: out, interactive: interactive}
}

func (p *Printer) Interactive() bool {
	return p != nil && p.interactive
}

func (p *Printer) F(style Style, text string) string {
	return Format(style, text, p.Interactive())
}

func (p *Printer) Linef(format string, args ...any) {
	if p == nil {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Step prints "-- <label>: <subject> -> <target>".
func (p *Printer) Step(label string, subject string, target string) {
	if p == nil {
		return
	}
	line := p.F(StyleHeader, "-- "+label+":") + " " + p.F(StyleSubject, subject)
	if target != "" {
		line += " -> " + p.F(StylePath, target)
	}
	p.Linef("%s", line)
}

func (p *Printer) Done(start time.Time) {
	if p == nil {
		return
	}
	p.Linef("%s %s", p.F(StyleOK, "-- OK"), p.F(StyleMuted, "("+shared.FormatDuration(time.Since(start))+")"))
}

func (p *Printer) Failed(start time.Time, err error) {
	if p == nil {
		return
	}
	p.Linef("%s %s", p.F(StyleError, "-- ERROR"), p.F(StyleMuted, "("+shared.FormatDuration(time.Since(start))+")"))
	if err != nil {
		p.Linef("   %s", p.F(StyleError, err.Error()))
	}
}

func (p *Printer) Warn(format string, args ...any) {
	if p == nil {
		return
	}
	p.Linef("%s", p.F(StyleWarn, fmt.Sprintf(format, args...)))
}

func (p *Printer) Rule() {
	if p == nil {
		return
	}
	p.Linef("%s", p.F(StyleMuted, strings.Repeat("-", 64)))
}
