// Package logger writes user-facing progress output with coloured levels.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Logger writes plain and coloured messages. Log and Info go to the standard
// output writer, Warn and Error to the error writer, matching console
// conventions. A nil *Logger discards everything.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer

	info lipgloss.Style
	warn lipgloss.Style
	err  lipgloss.Style
}

// New creates a logger writing to out and errOut. Colours are only emitted
// when the corresponding writer is a terminal.
func New(out, errOut io.Writer) *Logger {
	outRenderer := lipgloss.NewRenderer(out)
	errRenderer := lipgloss.NewRenderer(errOut)

	return &Logger{
		out:    out,
		errOut: errOut,
		info:   outRenderer.NewStyle().Foreground(lipgloss.Color("#22C55E")).TabWidth(lipgloss.NoTabConversion),
		warn:   errRenderer.NewStyle().Foreground(lipgloss.Color("#F59E0B")).TabWidth(lipgloss.NoTabConversion),
		err:    errRenderer.NewStyle().Foreground(lipgloss.Color("#EF4444")).TabWidth(lipgloss.NoTabConversion),
	}
}

// Default returns a logger bound to os.Stdout and os.Stderr.
func Default() *Logger {
	return New(os.Stdout, os.Stderr)
}

// Log writes message unstyled.
func (l *Logger) Log(message string) {
	if l == nil {
		return
	}
	l.write(l.out, message)
}

// Logf formats and writes an unstyled message.
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Info writes message in green.
func (l *Logger) Info(message string) {
	if l == nil {
		return
	}
	l.write(l.out, render(l.info, message))
}

// Infof formats and writes an info message.
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warn writes message in yellow to the error writer.
func (l *Logger) Warn(message string) {
	if l == nil {
		return
	}
	l.write(l.errOut, render(l.warn, message))
}

// Warnf formats and writes a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Error writes message in red to the error writer.
func (l *Logger) Error(message string) {
	if l == nil {
		return
	}
	l.write(l.errOut, render(l.err, message))
}

// Writer returns the standard output writer, or io.Discard for a nil logger.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return io.Discard
	}
	return lockedWriter{l: l, w: l.out}
}

// ErrWriter returns the error writer, or io.Discard for a nil logger.
func (l *Logger) ErrWriter() io.Writer {
	if l == nil {
		return io.Discard
	}
	return lockedWriter{l: l, w: l.errOut}
}

func (l *Logger) write(w io.Writer, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(w, message)
}

// render styles each line on its own; lipgloss pads multi-line blocks to a
// common width otherwise.
func render(style lipgloss.Style, message string) string {
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

type lockedWriter struct {
	l *Logger
	w io.Writer
}

func (lw lockedWriter) Write(p []byte) (int, error) {
	lw.l.mu.Lock()
	defer lw.l.mu.Unlock()
	return lw.w.Write(p)
}
