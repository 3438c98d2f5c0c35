package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const (
	spinnerDelay   = 100 * time.Millisecond
	spinnerCharSet = 11
	spinnerColor   = "cyan"
	ansiRed        = "\x1b[31m"
	ansiGreen      = "\x1b[32m"
	ansiYellow     = "\x1b[33m"
	ansiReset      = "\x1b[0m"
)

// Progress renders CLI progress output with optional spinner.
// It is safe for concurrent use: both mirrors log through it while refreshing.
type Progress struct {
	mu  sync.Mutex
	out io.Writer
	v   bool
	q   bool
	s   *spinner.Spinner
}

// New creates a Progress printer on stdout configured for verbose/quiet output.
func New(verbose, quiet bool) *Progress {
	return NewWithWriter(os.Stdout, verbose, quiet, !verbose && !quiet)
}

// NewWithWriter creates a Progress printer writing to out; spin enables the spinner.
func NewWithWriter(out io.Writer, verbose, quiet, spin bool) *Progress {
	p := &Progress{out: out, v: verbose, q: quiet}
	if !spin || quiet || verbose {
		return p
	}
	s := spinner.New(spinner.CharSets[spinnerCharSet], spinnerDelay, spinner.WithWriter(out))
	_ = s.Color(spinnerColor)
	p.s = s
	p.s.Start()
	return p
}

// Printf updates the spinner line or prints a log line.
func (p *Progress) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.s != nil {
		p.s.Suffix = fmt.Sprintf(" "+format, args...)
	}
	if p.v {
		_, _ = fmt.Fprintf(p.out, format+"\n", args...)
	}
}

// PersistentPrintf prints a persistent line that survives spinner updates.
func (p *Progress) PersistentPrintf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printLine(fmt.Sprintf(format, args...))
}

// Okf prints a success message with a colored marker.
func (p *Progress) Okf(format string, args ...any) {
	p.PersistentPrintf("%s✔%s "+format, append([]any{ansiGreen, ansiReset}, args...)...)
}

// Warnf prints a warning message with a colored marker.
func (p *Progress) Warnf(format string, args ...any) {
	p.PersistentPrintf("%s!%s "+format, append([]any{ansiYellow, ansiReset}, args...)...)
}

// Errorf prints an error message with a colored marker.
func (p *Progress) Errorf(format string, args ...any) {
	p.PersistentPrintf("%s✗%s "+format, append([]any{ansiRed, ansiReset}, args...)...)
}

// Debugf prints a debug message when verbose mode is enabled.
func (p *Progress) Debugf(format string, args ...any) {
	if !p.v {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, "🚧 Debug: "+format+"\n", args...)
}

// DebugSincef prints a debug message with timing info.
func (p *Progress) DebugSincef(start time.Time, format string, args ...any) {
	if !p.v {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, "⏱️ Debug Timing ("+time.Since(start).Round(time.Millisecond).String()+"): "+format+"\n", args...)
}

// Write implements io.Writer so slog handlers can log through the spinner.
func (p *Progress) Write(payload []byte) (int, error) {
	message := strings.TrimRight(string(payload), "\n")
	if message == "" {
		return len(payload), nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printLine(message)
	return len(payload), nil
}

// Close stops the spinner if it is running.
func (p *Progress) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.s != nil {
		p.s.Stop()
		p.s = nil
	}
}

// printLine writes a full line, pausing the spinner around it. Callers hold mu.
func (p *Progress) printLine(message string) {
	if p.s != nil {
		p.s.Stop()
		_, _ = fmt.Fprintln(p.out, message)
		p.s.Restart()
		return
	}
	_, _ = fmt.Fprintln(p.out, message)
}
