package stats

import (
	"time"

	"github.com/technicallyty/poolstat/mempool"
)

// Snapshot is a point-in-time copy of the aggregate counters. Readers must
// treat the slices it holds as read-only.
type Snapshot struct {
	RequestsSent      int
	ResponsesReceived int
	ResponseTimes     []time.Duration
	TotalResponseTime time.Duration
	MinResponseTime   time.Duration
	MaxResponseTime   time.Duration

	TransactionsFound int
	AddressesFound    int
	UniqueAddresses   int
	PendingCount      int
	QueuedCount       int
	FieldCounts       map[string]int

	Failures            map[mempool.FailureKind]int
	ConsecutiveFailures int
	RPCErrors           int

	// Pools holds the transactions of the latest successful response.
	Pools map[mempool.Category][]mempool.TxSummary
}

// AverageResponseTime is the mean round trip, or 0 before any response.
func (s Snapshot) AverageResponseTime() time.Duration {
	if s.ResponsesReceived == 0 {
		return 0
	}
	return s.TotalResponseTime / time.Duration(s.ResponsesReceived)
}

// Failed is the number of requests that got no usable response.
func (s Snapshot) Failed() int {
	return s.RequestsSent - s.ResponsesReceived
}
