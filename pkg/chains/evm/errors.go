package evm

import "fmt"

// ChainIDMismatchError is returned when an endpoint serves a different chain than expected
type ChainIDMismatchError struct {
	Endpoint string
	Expected uint64
	Actual   uint64
}

func (e *ChainIDMismatchError) Error() string {
	return fmt.Sprintf("endpoint %s serves chain %d, expected %d", e.Endpoint, e.Actual, e.Expected)
}

// RPCError represents an RPC-related error
type RPCError struct {
	Endpoint string
	Err      error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error on %s: %v", e.Endpoint, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}
