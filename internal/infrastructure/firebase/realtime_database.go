package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"firebase.google.com/go/v4/db"

	"secretroom/internal/domain/repository"
	"secretroom/internal/observability"
	"secretroom/pkg/logger"
)

type RealtimeDatabase struct {
	client        *db.Client
	watchInterval time.Duration
}

func NewRealtimeDatabase(client *db.Client, watchInterval time.Duration) repository.Database {
	if watchInterval <= 0 {
		watchInterval = 2 * time.Second
	}
	return &RealtimeDatabase{
		client:        client,
		watchInterval: watchInterval,
	}
}

func (d *RealtimeDatabase) Get(ctx context.Context, path string, v interface{}) error {
	observability.DatabaseOp("get")
	if err := d.client.NewRef(path).Get(ctx, v); err != nil {
		observability.DatabaseOpError("get")
		return err
	}
	return nil
}

func (d *RealtimeDatabase) Set(ctx context.Context, path string, v interface{}) error {
	observability.DatabaseOp("set")
	if err := d.client.NewRef(path).Set(ctx, v); err != nil {
		observability.DatabaseOpError("set")
		return err
	}
	return nil
}

func (d *RealtimeDatabase) Delete(ctx context.Context, path string) error {
	observability.DatabaseOp("delete")
	if err := d.client.NewRef(path).Delete(ctx); err != nil {
		observability.DatabaseOpError("delete")
		return err
	}
	return nil
}

// Watch polls the node and diffs raw snapshots. The Go Admin SDK exposes no
// streaming listener, so polling is the closest continuous-subscription
// shape it can offer.
func (d *RealtimeDatabase) Watch(ctx context.Context, path string) (<-chan json.RawMessage, error) {
	var current json.RawMessage
	if err := d.Get(ctx, path, &current); err != nil {
		return nil, err
	}

	snapshots := make(chan json.RawMessage, 1)
	snapshots <- current

	go func() {
		defer close(snapshots)
		ticker := time.NewTicker(d.watchInterval)
		defer ticker.Stop()

		last := current
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var next json.RawMessage
				if err := d.Get(ctx, path, &next); err != nil {
					logger.Warn("watch %s: %v", path, err)
					continue
				}
				if bytes.Equal(last, next) {
					continue
				}
				last = next
				select {
				case snapshots <- next:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return snapshots, nil
}
