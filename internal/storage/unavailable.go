package storage

import "context"

// Ensure unavailableKV implements KV
var _ KV = unavailableKV{}

// unavailableKV stands in when no runtime store exists. Reads report
// absence, writes are dropped, nothing ever fails.
type unavailableKV struct{}

// Unavailable returns a KV that persists nothing. A service backed by it
// keeps working purely in memory for the session.
func Unavailable() KV {
	return unavailableKV{}
}

func (unavailableKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (unavailableKV) Apply(context.Context, ...Op) error                { return nil }
func (unavailableKV) Available() bool                                   { return false }
func (unavailableKV) Close() error                                      { return nil }
