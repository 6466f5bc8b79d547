package main

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/technicallyty/poolstat/present"
	"github.com/technicallyty/poolstat/stats"
)

type sender interface {
	Send(msg tea.Msg)
}

// liveView forwards snapshots to the tea program and remembers the last one
// for the summary printed after the program exits.
type liveView struct {
	program sender

	mu      sync.Mutex
	snap    stats.Snapshot
	elapsed time.Duration
}

var _ present.Presenter = &liveView{}

func newLiveView(program sender) *liveView {
	return &liveView{program: program}
}

func (v *liveView) Render(snap stats.Snapshot, elapsed time.Duration) {
	v.mu.Lock()
	v.snap, v.elapsed = snap, elapsed
	v.mu.Unlock()

	v.program.Send(statsMsg{snap: snap, elapsed: elapsed})
}

func (v *liveView) Last() (stats.Snapshot, time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap, v.elapsed
}

// programWriter prints log lines above the running tea program. Lines
// written after the program has exited are dropped.
type programWriter struct {
	program sender
}

func (w programWriter) Write(p []byte) (int, error) {
	w.program.Send(tea.Println(strings.TrimRight(string(p), "\n"))())
	return len(p), nil
}
