// Package kv provides the flat key-value namespace every entity lives in.
// Values are opaque JSON documents; relationships between them exist only by
// convention (embedded ids and emails) and are maintained by callers.
package kv

import "context"

type Entry struct {
	Key   string
	Value []byte
}

// Store is the storage contract: point lookups, full-value writes and prefix
// scans. Get returns (nil, nil) for a missing key. Within one request all
// calls are issued sequentially, so read-your-writes holds; nothing stronger
// is guaranteed across requests.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}
