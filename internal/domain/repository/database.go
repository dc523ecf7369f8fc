package repository

import (
	"context"
	"encoding/json"
)

// Database is the path-addressed tree store the repositories run against.
// Get decodes the node at path into v; an absent node decodes as JSON null,
// matching Realtime Database semantics. Set replaces the whole subtree at
// path. Watch delivers a raw snapshot of the node immediately and again
// after every observed change until ctx is done, then closes the channel.
type Database interface {
	Get(ctx context.Context, path string, v interface{}) error
	Set(ctx context.Context, path string, v interface{}) error
	Delete(ctx context.Context, path string) error
	Watch(ctx context.Context, path string) (<-chan json.RawMessage, error)
}
