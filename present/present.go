package present

import (
	"fmt"
	"time"

	"github.com/technicallyty/poolstat/mempool"
	"github.com/technicallyty/poolstat/stats"
)

// Presenter renders a snapshot. Implementations must not modify the
// snapshot and must cope with being called at any rate.
type Presenter interface {
	Render(snap stats.Snapshot, elapsed time.Duration)
}

type Tone int

const (
	ToneRequests Tone = iota
	ToneTiming
	ToneTotals
	TonePending
	ToneQueued
	ToneFailures
	ToneHeader
	ToneField
)

// Row is one line of the dashboard.
type Row struct {
	Label string
	Value string
	Tone  Tone
}

func (r Row) String() string {
	switch {
	case r.Tone == ToneField:
		return fmt.Sprintf("  %s: %s", r.Label, r.Value)
	case r.Value == "":
		return r.Label
	default:
		return fmt.Sprintf("%s: %s", r.Label, r.Value)
	}
}

// Rows lays out a snapshot in the fixed dashboard order.
func Rows(snap stats.Snapshot, elapsed time.Duration) []Row {
	rows := []Row{
		{"Requests sent", itoa(snap.RequestsSent), ToneRequests},
		{"Responses received", itoa(snap.ResponsesReceived), ToneRequests},
		{"Full duration (s)", seconds(elapsed), ToneTiming},
		{"Average response time (s)", seconds(snap.AverageResponseTime()), ToneTiming},
		{"Min response time (s)", seconds(snap.MinResponseTime), ToneTiming},
		{"Max response time (s)", seconds(snap.MaxResponseTime), ToneTiming},
		{"Transactions found", itoa(snap.TransactionsFound), ToneTotals},
		{"Addresses found", itoa(snap.AddressesFound), ToneTotals},
		{"Unique addresses", itoa(snap.UniqueAddresses), ToneTotals},
		{"Pending tx count", itoa(snap.PendingCount), TonePending},
		{"Queued tx count", itoa(snap.QueuedCount), ToneQueued},
	}
	for _, kind := range mempool.FailureKinds {
		rows = append(rows, Row{fmt.Sprintf("Failed requests (%s)", kind), itoa(snap.Failures[kind]), ToneFailures})
	}
	rows = append(rows,
		Row{"RPC error responses", itoa(snap.RPCErrors), ToneFailures},
		Row{Label: "Field occurrence counts:", Tone: ToneHeader},
	)
	for _, field := range mempool.Fields {
		rows = append(rows, Row{field, itoa(snap.FieldCounts[field]), ToneField})
	}
	return rows
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.4f", d.Seconds())
}
