package mempool

import (
	"cmp"
	"errors"
	"iter"
	"slices"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tidwall/gjson"
)

type Category string

const (
	CategoryPending Category = "pending"
	CategoryQueued  Category = "queued"
)

// Categories lists the txpool sections that are read from a response, in
// display order.
var Categories = []Category{CategoryPending, CategoryQueued}

// Fields is the transaction field vocabulary whose presence is counted.
var Fields = []string{
	"chainId", "type", "nonce", "gas", "maxFeePerGas", "maxPriorityFeePerGas",
	"to", "value", "accessList", "input", "r", "s", "yParity", "v", "hash",
	"blockHash", "blockNumber", "transactionIndex", "from", "gasPrice",
}

var errNotJSON = errors.New("response body is not valid JSON")
var errNotObject = errors.New("response body is not a JSON object")

// Content is one decoded txpool_content response. Sections that are absent
// or not objects are simply empty.
type Content struct {
	pools    map[Category]gjson.Result
	rpcError *RPCError
}

// Entry is a single transaction record found under category -> address -> nonce.
type Entry struct {
	Category Category
	Address  string
	Nonce    string
	Record   gjson.Result
}

// Has reports whether the record carries field as a key. The value itself is
// not inspected. field must not contain gjson path syntax.
func (e Entry) Has(field string) bool {
	if !e.Record.IsObject() {
		return false
	}
	return e.Record.Get(field).Exists()
}

// TxSummary is the part of a transaction shown in the pool view.
type TxSummary struct {
	Category Category
	Address  string
	Hash     common.Hash
	Nonce    uint64
	Gas      uint64
}

// ParseContent decodes a JSON-RPC response body. Only a body that is not a
// JSON object is an error; a missing or malformed result yields empty content.
// When a key is repeated in the envelope or the result, its last value wins.
func ParseContent(body []byte) (*Content, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Err: errNotJSON}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &DecodeError{Err: errNotObject}
	}

	c := &Content{pools: make(map[Category]gjson.Result, len(Categories))}
	if e := lastMember(root, "error"); e.IsObject() {
		c.rpcError = &RPCError{
			Code:    int(e.Get("code").Int()),
			Message: e.Get("message").String(),
		}
	}

	result := lastMember(root, "result")
	if !result.IsObject() {
		return c, nil
	}
	for _, category := range Categories {
		if pool := lastMember(result, string(category)); pool.IsObject() {
			c.pools[category] = pool
		}
	}
	return c, nil
}

// lastMember returns the last value stored under key in obj. gjson.Get
// stops at the first one.
func lastMember(obj gjson.Result, key string) gjson.Result {
	var value gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			value = v
		}
		return true
	})
	return value
}

// RPCError returns the error object of the response, if any.
func (c *Content) RPCError() *RPCError {
	return c.rpcError
}

// Addresses returns the address keys of a category in document order.
// Duplicated keys are returned as often as they appear.
func (c *Content) Addresses(category Category) []string {
	pool, ok := c.pools[category]
	if !ok {
		return nil
	}
	var addresses []string
	pool.ForEach(func(key, _ gjson.Result) bool {
		addresses = append(addresses, key.String())
		return true
	})
	return addresses
}

// Entries yields every transaction record, category by category, in document
// order. Address values that are not objects contribute no entries.
func (c *Content) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, category := range Categories {
			pool, ok := c.pools[category]
			if !ok {
				continue
			}
			stopped := false
			pool.ForEach(func(address, txs gjson.Result) bool {
				if !txs.IsObject() {
					return true
				}
				txs.ForEach(func(nonce, record gjson.Result) bool {
					if !yield(Entry{Category: category, Address: address.String(), Nonce: nonce.String(), Record: record}) {
						stopped = true
					}
					return !stopped
				})
				return !stopped
			})
			if stopped {
				return
			}
		}
	}
}

// Summaries returns up to limit transactions of a category ordered by gas.
// A limit <= 0 returns all of them.
func (c *Content) Summaries(category Category, limit int) []TxSummary {
	var out []TxSummary
	for entry := range c.Entries() {
		if entry.Category == category {
			out = append(out, Summarize(entry))
		}
	}
	slices.SortStableFunc(out, func(a, b TxSummary) int {
		return cmp.Compare(a.Gas, b.Gas)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Summarize extracts hash, nonce and gas from a record. Values that do not
// decode are left zero; the nonce falls back to the map key.
func Summarize(e Entry) TxSummary {
	s := TxSummary{Category: e.Category, Address: e.Address}
	if !e.Record.IsObject() {
		s.Nonce, _ = strconv.ParseUint(e.Nonce, 10, 64)
		return s
	}
	if h := e.Record.Get("hash"); h.Type == gjson.String {
		s.Hash = common.HexToHash(h.Str)
	}
	if n, ok := quantity(e.Record.Get("nonce")); ok {
		s.Nonce = n
	} else {
		s.Nonce, _ = strconv.ParseUint(e.Nonce, 10, 64)
	}
	s.Gas, _ = quantity(e.Record.Get("gas"))
	return s
}

func quantity(v gjson.Result) (uint64, bool) {
	if v.Type != gjson.String {
		return 0, false
	}
	n, err := hexutil.DecodeUint64(v.Str)
	if err != nil {
		return 0, false
	}
	return n, true
}
