package mempool

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a request produced no usable response.
type FailureKind string

const (
	KindTransport FailureKind = "transport"
	KindDecode    FailureKind = "decode"
)

// FailureKinds lists every kind in display order.
var FailureKinds = []FailureKind{KindTransport, KindDecode}

// TransportError covers connection failures, timeouts and unreadable bodies.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned for bodies that are not a JSON object.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RPCError is the error object of a JSON-RPC response.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// KindOf maps err to its failure kind. Anything that is not a decode error
// counts as a transport failure.
func KindOf(err error) FailureKind {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return KindDecode
	}
	return KindTransport
}
