package mocks

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// Database is an in-memory tree standing in for the Realtime Database in
// tests. It mirrors the path semantics the repositories rely on: Get of an
// absent node decodes JSON null, Set replaces the whole subtree, watchers
// receive a snapshot on registration and after every change that touches
// their path. Individual operations can be made to fail for fault injection.
type Database struct {
	mu       sync.Mutex
	root     map[string]interface{}
	failGet  map[string]error
	failSet  map[string]error
	watchers []*watcher
}

type watcher struct {
	path string
	ch   chan json.RawMessage
}

func NewDatabase() *Database {
	return &Database{
		root:    make(map[string]interface{}),
		failGet: make(map[string]error),
		failSet: make(map[string]error),
	}
}

// FailNextGet makes the next Get on path return err.
func (d *Database) FailNextGet(path string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failGet[path] = err
}

// FailNextSet makes the next Set on path return err.
func (d *Database) FailNextSet(path string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failSet[path] = err
}

func (d *Database) Get(ctx context.Context, path string, v interface{}) error {
	d.mu.Lock()
	if err, ok := d.failGet[path]; ok {
		delete(d.failGet, path)
		d.mu.Unlock()
		return err
	}
	raw := d.snapshotLocked(path)
	d.mu.Unlock()

	return json.Unmarshal(raw, v)
}

func (d *Database) Set(ctx context.Context, path string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node interface{}
	if err := json.Unmarshal(raw, &node); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.failSet[path]; ok {
		delete(d.failSet, path)
		return err
	}
	d.placeLocked(split(path), node)
	d.notifyLocked(path)
	return nil
}

func (d *Database) Delete(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	segments := split(path)
	parent := d.root
	for _, segment := range segments[:len(segments)-1] {
		next, ok := parent[segment].(map[string]interface{})
		if !ok {
			return nil
		}
		parent = next
	}
	delete(parent, segments[len(segments)-1])
	d.notifyLocked(path)
	return nil
}

func (d *Database) Watch(ctx context.Context, path string) (<-chan json.RawMessage, error) {
	ch := make(chan json.RawMessage, 16)
	w := &watcher{path: path, ch: ch}

	d.mu.Lock()
	d.watchers = append(d.watchers, w)
	ch <- d.snapshotLocked(path)
	d.mu.Unlock()

	go func() {
		<-ctx.Done()
		d.mu.Lock()
		for i, candidate := range d.watchers {
			if candidate == w {
				d.watchers = append(d.watchers[:i], d.watchers[i+1:]...)
				break
			}
		}
		d.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

func split(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func (d *Database) lookupLocked(path string) (interface{}, bool) {
	var node interface{} = d.root
	for _, segment := range split(path) {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (d *Database) snapshotLocked(path string) json.RawMessage {
	node, ok := d.lookupLocked(path)
	if !ok {
		return json.RawMessage("null")
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return json.RawMessage("null")
	}
	return raw
}

func (d *Database) placeLocked(segments []string, node interface{}) {
	parent := d.root
	for _, segment := range segments[:len(segments)-1] {
		next, ok := parent[segment].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			parent[segment] = next
		}
		parent = next
	}
	parent[segments[len(segments)-1]] = node
}

// notifyLocked pushes fresh snapshots to every watcher whose path overlaps
// the changed path, in either direction.
func (d *Database) notifyLocked(changed string) {
	for _, w := range d.watchers {
		if !overlaps(w.path, changed) {
			continue
		}
		select {
		case w.ch <- d.snapshotLocked(w.path):
		default:
		}
	}
}

func overlaps(a, b string) bool {
	return a == b || strings.HasPrefix(b, a+"/") || strings.HasPrefix(a, b+"/")
}
