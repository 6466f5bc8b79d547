package stats

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/technicallyty/poolstat/mempool"
)

// Aggregator folds poll results into running counters. The zero value is not
// usable; create one with NewAggregator.
type Aggregator struct {
	mu sync.RWMutex

	requestsSent      int
	responsesReceived int
	responseTimes     []time.Duration
	totalResponse     time.Duration
	minResponse       time.Duration
	maxResponse       time.Duration

	transactionsFound int
	addressesFound    int
	unique            map[string]struct{}
	pendingCount      int
	queuedCount       int
	fieldCounts       map[string]int

	failures            map[mempool.FailureKind]int
	consecutiveFailures int
	rpcErrors           int

	pools map[mempool.Category][]mempool.TxSummary
}

func NewAggregator() *Aggregator {
	fieldCounts := make(map[string]int, len(mempool.Fields))
	for _, field := range mempool.Fields {
		fieldCounts[field] = 0
	}
	failures := make(map[mempool.FailureKind]int, len(mempool.FailureKinds))
	for _, kind := range mempool.FailureKinds {
		failures[kind] = 0
	}
	return &Aggregator{
		unique:      make(map[string]struct{}),
		fieldCounts: fieldCounts,
		failures:    failures,
		pools:       make(map[mempool.Category][]mempool.TxSummary),
	}
}

func (a *Aggregator) RecordRequestSent() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requestsSent++
}

// RecordResponse registers a successful round trip.
func (a *Aggregator) RecordResponse(elapsed time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responsesReceived++
	a.responseTimes = append(a.responseTimes, elapsed)
	a.totalResponse += elapsed
	if a.responsesReceived == 1 || elapsed < a.minResponse {
		a.minResponse = elapsed
	}
	if elapsed > a.maxResponse {
		a.maxResponse = elapsed
	}
	a.consecutiveFailures = 0
}

// RecordFailure registers a request that produced no usable response.
func (a *Aggregator) RecordFailure(kind mempool.FailureKind) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[kind]++
	a.consecutiveFailures++
}

// RecordRPCError counts a response that carried a JSON-RPC error object.
func (a *Aggregator) RecordRPCError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rpcErrors++
}

// RecordTransaction counts one transaction. Categories other than pending
// and queued are ignored so that the total always equals their sum.
func (a *Aggregator) RecordTransaction(category mempool.Category) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch category {
	case mempool.CategoryPending:
		a.pendingCount++
	case mempool.CategoryQueued:
		a.queuedCount++
	default:
		return
	}
	a.transactionsFound++
}

// RecordField counts one occurrence of a vocabulary field. Unknown names are
// dropped.
func (a *Aggregator) RecordField(field string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.fieldCounts[field]; ok {
		a.fieldCounts[field]++
	}
}

// RecordAddressBatch adds the addresses of one category of one response.
// Every address counts towards the found total; the unique set is shared
// across categories and responses.
func (a *Aggregator) RecordAddressBatch(_ mempool.Category, addresses []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.addressesFound += len(addresses)
	for _, address := range addresses {
		a.unique[address] = struct{}{}
	}
}

// RecordPool replaces the latest sample of a category.
func (a *Aggregator) RecordPool(category mempool.Category, txs []mempool.TxSummary) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pools[category] = slices.Clone(txs)
}

// Addresses returns the unique addresses seen so far, sorted.
func (a *Aggregator) Addresses() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Sorted(maps.Keys(a.unique))
}

// Snapshot returns a copy of the current state that is safe to keep and read
// while the aggregator keeps changing.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	pools := make(map[mempool.Category][]mempool.TxSummary, len(a.pools))
	for category, txs := range a.pools {
		// pool slices are replaced, never written in place
		pools[category] = txs[:len(txs):len(txs)]
	}

	n := len(a.responseTimes)
	return Snapshot{
		RequestsSent:      a.requestsSent,
		ResponsesReceived: a.responsesReceived,
		// responseTimes is append-only, so a clipped prefix never changes
		ResponseTimes:       a.responseTimes[:n:n],
		TotalResponseTime:   a.totalResponse,
		MinResponseTime:     a.minResponse,
		MaxResponseTime:     a.maxResponse,
		TransactionsFound:   a.transactionsFound,
		AddressesFound:      a.addressesFound,
		UniqueAddresses:     len(a.unique),
		PendingCount:        a.pendingCount,
		QueuedCount:         a.queuedCount,
		FieldCounts:         maps.Clone(a.fieldCounts),
		Failures:            maps.Clone(a.failures),
		ConsecutiveFailures: a.consecutiveFailures,
		RPCErrors:           a.rpcErrors,
		Pools:               pools,
	}
}

var _ mempool.EventSink = &Aggregator{}
