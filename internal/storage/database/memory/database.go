// Package memory is a map-backed database for tests and standalone runs.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/curvefoundry/curved/internal/storage/database"
)

type DB struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func New() *DB {
	return &DB{data: make(map[string][]byte)}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, database.ErrDBClosed
	}
	value, ok := m.data[string(key)]
	if !ok {
		return nil, database.ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *DB) Write(ctx context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[string(key)] = stored
	return nil
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}
	delete(m.data, string(key))
	return nil
}

func (m *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			stored := make([]byte, len(op.Value))
			copy(stored, op.Value)
			m.data[string(op.Key)] = stored
		case database.BatchDelete:
			delete(m.data, string(op.Key))
		default:
			return database.ErrBatchOperationFailed
		}
	}
	return nil
}

func (m *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, database.ErrDBClosed
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		key := []byte(k)
		if start != nil && bytes.Compare(key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(key, end) >= 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	it := &iterator{}
	for _, k := range keys {
		value := make([]byte, len(m.data[k]))
		copy(value, m.data[k])
		it.entries = append(it.entries, entry{key: []byte(k), value: value})
	}
	return it, nil
}

func (m *DB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}

type entry struct {
	key, value []byte
}

type iterator struct {
	entries []entry
	pos     int
}

func (it *iterator) Next() bool {
	if it.pos >= len(it.entries) {
		return false
	}
	it.pos++
	return it.pos <= len(it.entries)
}

func (it *iterator) Key() []byte {
	if it.pos == 0 || it.pos > len(it.entries) {
		return nil
	}
	return it.entries[it.pos-1].key
}

func (it *iterator) Value() []byte {
	if it.pos == 0 || it.pos > len(it.entries) {
		return nil
	}
	return it.entries[it.pos-1].value
}

func (it *iterator) Error() error { return nil }

func (it *iterator) Close() error { return nil }
