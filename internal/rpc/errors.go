package rpc

import (
	"errors"
	"fmt"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// UpstreamError is a JSON-RPC error object returned by the node. It is not retried.
type UpstreamError struct {
	Method  string
	Code    int
	Message string
}

func (e *UpstreamError) Error() string {
	return "RPC error: " + e.Message
}

// NetworkError covers transport failures, non-2xx HTTP answers and deadlines.
type NetworkError struct {
	Method string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("rpc %s: %v", e.Method, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func classify(method string, err error) error {
	if err == nil {
		return nil
	}
	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) {
		return &UpstreamError{Method: method, Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
	}
	return &NetworkError{Method: method, Err: err}
}

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
