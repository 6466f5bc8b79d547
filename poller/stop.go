package poller

import (
	"errors"
	"fmt"

	"github.com/technicallyty/poolstat/stats"
)

var ErrTooManyFailures = errors.New("too many consecutive failed requests")

// StopCondition is checked after every iteration. A non-nil error ends the
// run and is returned from Run.
type StopCondition interface {
	ShouldStop(snap stats.Snapshot) error
}

// StopFunc adapts a function to StopCondition.
type StopFunc func(snap stats.Snapshot) error

func (f StopFunc) ShouldStop(snap stats.Snapshot) error {
	return f(snap)
}

// MaxConsecutiveFailures stops the run once that many requests in a row
// failed. Zero or less never stops.
type MaxConsecutiveFailures int

func (m MaxConsecutiveFailures) ShouldStop(snap stats.Snapshot) error {
	if m <= 0 || snap.ConsecutiveFailures < int(m) {
		return nil
	}
	return fmt.Errorf("%w: %d", ErrTooManyFailures, snap.ConsecutiveFailures)
}
