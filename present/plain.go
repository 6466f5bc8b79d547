package present

import (
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/technicallyty/poolstat/stats"
)

const clearScreen = "\033[2J\033[H"

var palette = map[Tone]*color.Color{
	ToneRequests: color.New(color.FgCyan),
	ToneTiming:   color.New(color.FgMagenta),
	ToneTotals:   color.New(color.FgWhite),
	TonePending:  color.New(color.FgYellow),
	ToneQueued:   color.New(color.FgBlue),
	ToneFailures: color.New(color.FgRed),
	ToneHeader:   color.New(color.FgWhite, color.Bold),
	ToneField:    color.New(color.FgWhite),
}

// Plain writes the dashboard as colored lines, clearing the screen first
// when clear is set.
type Plain struct {
	mu    sync.Mutex
	out   io.Writer
	clear bool
}

var _ Presenter = &Plain{}

// NewPlain returns the screen-clearing presenter.
func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out, clear: true}
}

// NewText returns a presenter that appends the dashboard without clearing,
// used for the final snapshot.
func NewText(out io.Writer) *Plain {
	return &Plain{out: out}
}

func (p *Plain) Render(snap stats.Snapshot, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.clear {
		io.WriteString(p.out, clearScreen)
	}
	for _, row := range Rows(snap, elapsed) {
		palette[row.Tone].Fprintln(p.out, row.String())
	}
}

// Completed prints the closing line of a run.
func Completed(out io.Writer) {
	color.New(color.FgGreen, color.Bold).Fprintln(out, "\nCompleted stats collection!")
}
