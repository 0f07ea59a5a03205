package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNonInteractiveIsPlain(t *testing.T) {
	for _, style := range []Style{StyleHeader, StyleOK, StyleError, StylePlain} {
		assert.Equal(t, "text", Format(style, "text", false))
	}
}

func TestFormatInteractiveAddsEscapes(t *testing.T) {
	got := Format(StyleError, "boom", true)
	assert.Contains(t, got, "boom")
	assert.Contains(t, got, "\x1b[")
}

func TestFormatUnknownStyleIsPlain(t *testing.T) {
	assert.Equal(t, "x", Format(Style(999), "x", true))
}

func TestPrinterStepAndDone(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.Step("installing", "pkg", "/ws/pkg")
	p.Done(time.Now())
	p.Failed(time.Now(), errors.New("clone failed"))

	out := buf.String()
	assert.Contains(t, out, "-- installing: pkg -> /ws/pkg\n")
	assert.Contains(t, out, "-- OK (")
	assert.Contains(t, out, " sec)")
	assert.Contains(t, out, "-- ERROR")
	assert.Contains(t, out, "clone failed")
	assert.NotContains(t, out, "\x1b[")
}

func TestNilPrinterIsQuiet(t *testing.T) {
	var p *Printer
	require.NotPanics(t, func() {
		p.Step("installing", "pkg", "")
		p.Done(time.Now())
		p.Warn("x %d", 1)
		p.Rule()
	})
	assert.False(t, p.Interactive())
}
