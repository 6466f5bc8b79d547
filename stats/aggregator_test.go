package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/technicallyty/poolstat/mempool"
)

func foldBody(t *testing.T, a *Aggregator, body string) {
	t.Helper()
	content, err := mempool.ParseContent([]byte(body))
	require.NoError(t, err)
	mempool.Fold(content, a)
}

func requireInvariants(t *testing.T, snap Snapshot) {
	t.Helper()
	require.Equal(t, snap.PendingCount+snap.QueuedCount, snap.TransactionsFound)
	require.LessOrEqual(t, snap.ResponsesReceived, snap.RequestsSent)
	require.Len(t, snap.ResponseTimes, snap.ResponsesReceived)
	require.LessOrEqual(t, snap.UniqueAddresses, snap.AddressesFound)
	require.Len(t, snap.FieldCounts, len(mempool.Fields))

	failed := 0
	for _, n := range snap.Failures {
		failed += n
	}
	require.Equal(t, snap.Failed(), failed)
}

func TestNewAggregatorIsZero(t *testing.T) {
	snap := NewAggregator().Snapshot()

	requireInvariants(t, snap)
	require.Zero(t, snap.RequestsSent)
	require.Zero(t, snap.AverageResponseTime())
	for _, field := range mempool.Fields {
		count, ok := snap.FieldCounts[field]
		require.True(t, ok, field)
		require.Zero(t, count)
	}
}

func TestSinglePendingTransaction(t *testing.T) {
	a := NewAggregator()
	a.RecordRequestSent()
	a.RecordResponse(20 * time.Millisecond)
	foldBody(t, a, `{"result":{"pending":{"0xA":{"1":{"chainId":"0x1","nonce":"0x1"}}},"queued":{}}}`)

	snap := a.Snapshot()
	requireInvariants(t, snap)
	require.Equal(t, 1, snap.TransactionsFound)
	require.Equal(t, 1, snap.PendingCount)
	require.Equal(t, 0, snap.QueuedCount)
	require.Equal(t, []string{"0xA"}, a.Addresses())
	for _, field := range mempool.Fields {
		want := 0
		if field == "chainId" || field == "nonce" {
			want = 1
		}
		require.Equal(t, want, snap.FieldCounts[field], field)
	}
}

func TestEmptyResultOnlyCountsResponse(t *testing.T) {
	a := NewAggregator()
	a.RecordRequestSent()
	a.RecordResponse(time.Millisecond)
	foldBody(t, a, `{"result":{}}`)

	snap := a.Snapshot()
	requireInvariants(t, snap)
	require.Equal(t, 1, snap.ResponsesReceived)
	require.Len(t, snap.ResponseTimes, 1)
	require.Zero(t, snap.TransactionsFound)
	require.Zero(t, snap.AddressesFound)
	require.Zero(t, snap.UniqueAddresses)
}

func TestAddressInBothCategories(t *testing.T) {
	a := NewAggregator()
	foldBody(t, a, `{"result":{"pending":{"0xB":{"1":{}}},"queued":{"0xB":{"5":{}}}}}`)

	snap := a.Snapshot()
	requireInvariants(t, snap)
	require.Equal(t, 2, snap.AddressesFound)
	require.Equal(t, 1, snap.UniqueAddresses)

	// repeated across responses: found grows, unique does not
	foldBody(t, a, `{"result":{"pending":{"0xB":{"1":{}}}}}`)
	snap = a.Snapshot()
	require.Equal(t, 3, snap.AddressesFound)
	require.Equal(t, 1, snap.UniqueAddresses)
}

func TestUniqueAddressesNeverDecrease(t *testing.T) {
	a := NewAggregator()
	bodies := []string{
		`{"result":{"pending":{"0x1":{},"0x2":{}}}}`,
		`{"result":{}}`,
		`{"result":{"queued":{"0x2":{},"0x3":{}}}}`,
		`{"result":{"pending":{"0x1":{}}}}`,
	}
	last := 0
	for _, body := range bodies {
		foldBody(t, a, body)
		snap := a.Snapshot()
		requireInvariants(t, snap)
		require.GreaterOrEqual(t, snap.UniqueAddresses, last)
		last = snap.UniqueAddresses
	}
	require.Equal(t, 3, last)
	require.Equal(t, []string{"0x1", "0x2", "0x3"}, a.Addresses())
}

func TestUnknownFieldAndCategoryAreIgnored(t *testing.T) {
	a := NewAggregator()
	a.RecordField("blobVersionedHashes")
	a.RecordTransaction(mempool.Category("baseFee"))

	snap := a.Snapshot()
	requireInvariants(t, snap)
	require.NotContains(t, snap.FieldCounts, "blobVersionedHashes")
	require.Zero(t, snap.TransactionsFound)
}

func TestFailuresAndTiming(t *testing.T) {
	a := NewAggregator()
	outcomes := []time.Duration{30 * time.Millisecond, -1, 10 * time.Millisecond, -1, -1, 20 * time.Millisecond}
	for _, elapsed := range outcomes {
		a.RecordRequestSent()
		if elapsed < 0 {
			a.RecordFailure(mempool.KindTransport)
			continue
		}
		a.RecordResponse(elapsed)
	}
	a.RecordRequestSent()
	a.RecordFailure(mempool.KindDecode)

	snap := a.Snapshot()
	requireInvariants(t, snap)
	require.Equal(t, 7, snap.RequestsSent)
	require.Equal(t, 3, snap.ResponsesReceived)
	require.Equal(t, 4, snap.Failed())
	require.Equal(t, 3, snap.Failures[mempool.KindTransport])
	require.Equal(t, 1, snap.Failures[mempool.KindDecode])
	require.Equal(t, 1, snap.ConsecutiveFailures)
	require.Equal(t, []time.Duration{30 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond}, snap.ResponseTimes)
	require.Equal(t, 10*time.Millisecond, snap.MinResponseTime)
	require.Equal(t, 30*time.Millisecond, snap.MaxResponseTime)
	require.Equal(t, 20*time.Millisecond, snap.AverageResponseTime())
}

func TestSnapshotIsIsolated(t *testing.T) {
	a := NewAggregator()
	a.RecordRequestSent()
	a.RecordResponse(time.Millisecond)
	a.RecordField("hash")
	a.RecordPool(mempool.CategoryPending, []mempool.TxSummary{{Nonce: 1}})

	snap := a.Snapshot()

	a.RecordRequestSent()
	a.RecordResponse(2 * time.Millisecond)
	a.RecordField("hash")
	a.RecordFailure(mempool.KindDecode)
	a.RecordPool(mempool.CategoryPending, []mempool.TxSummary{{Nonce: 2}, {Nonce: 3}})

	require.Equal(t, 1, snap.RequestsSent)
	require.Equal(t, []time.Duration{time.Millisecond}, snap.ResponseTimes)
	require.Equal(t, 1, snap.FieldCounts["hash"])
	require.Zero(t, snap.Failures[mempool.KindDecode])
	require.Equal(t, []mempool.TxSummary{{Nonce: 1}}, snap.Pools[mempool.CategoryPending])

	// appending to a snapshot slice must not leak into the aggregator
	_ = append(snap.ResponseTimes, time.Hour)
	require.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, a.Snapshot().ResponseTimes)
}

func TestRecordPoolCopiesInput(t *testing.T) {
	a := NewAggregator()
	txs := []mempool.TxSummary{{Nonce: 1}}
	a.RecordPool(mempool.CategoryQueued, txs)
	txs[0].Nonce = 99

	require.Equal(t, uint64(1), a.Snapshot().Pools[mempool.CategoryQueued][0].Nonce)
}

func TestRPCErrors(t *testing.T) {
	a := NewAggregator()
	a.RecordRPCError()
	a.RecordRPCError()
	require.Equal(t, 2, a.Snapshot().RPCErrors)
}
