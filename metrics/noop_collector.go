package metrics

import (
	"time"

	"github.com/technicallyty/poolstat/mempool"
	"github.com/technicallyty/poolstat/stats"
)

type NoopCollector struct{}

var _ Collector = &NoopCollector{}

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (c *NoopCollector) RequestSent()                      {}
func (c *NoopCollector) ResponseReceived(time.Duration)    {}
func (c *NoopCollector) RequestFailed(mempool.FailureKind) {}
func (c *NoopCollector) SnapshotUpdated(stats.Snapshot)    {}
