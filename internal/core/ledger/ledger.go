// Package ledger holds the mutable state map transactions execute
// against, with persistence through the key-value store.
package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/storage/database"
	"github.com/curvefoundry/curved/internal/storage/database/compression"
)

var (
	ErrEntryNotFound = errors.New("ledger entry not found")
	ErrEntryExists   = errors.New("ledger entry already exists")
)

// Ledger is the state map plus the per-ledger header fields. It
// satisfies the transaction engine's view contract directly.
type Ledger struct {
	mu         sync.RWMutex
	entries    map[[32]byte][]byte
	sequence   uint32
	closeTime  int64
	feesBurned uint64
}

func New() *Ledger {
	return &Ledger{
		entries:  make(map[[32]byte][]byte),
		sequence: 1,
	}
}

func (l *Ledger) Sequence() uint32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sequence
}

func (l *Ledger) CloseTime() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closeTime
}

func (l *Ledger) FeesBurned() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.feesBurned
}

// Close seals the current ledger: records the close time and advances
// the sequence.
func (l *Ledger) Close(closeTime int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeTime = closeTime
	l.sequence++
}

func (l *Ledger) Exists(k keylet.Keylet) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[k.Key]
	return ok
}

func (l *Ledger) Read(k keylet.Keylet) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	data, ok := l.entries[k.Key]
	if !ok {
		return nil, ErrEntryNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (l *Ledger) Insert(k keylet.Keylet, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[k.Key]; ok {
		return ErrEntryExists
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	l.entries[k.Key] = stored
	return nil
}

func (l *Ledger) Update(k keylet.Keylet, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[k.Key]; !ok {
		return ErrEntryNotFound
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	l.entries[k.Key] = stored
	return nil
}

func (l *Ledger) Erase(k keylet.Keylet) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[k.Key]; !ok {
		return ErrEntryNotFound
	}
	delete(l.entries, k.Key)
	return nil
}

func (l *Ledger) ForEach(fn func(key [32]byte, data []byte) bool) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for key, data := range l.entries {
		if !fn(key, data) {
			return nil
		}
	}
	return nil
}

func (l *Ledger) AdjustFeesBurned(amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.feesBurned += amount
}

// EntryCount is the number of live entries.
func (l *Ledger) EntryCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

const headerKey = "ledger:header"

func entryKey(key [32]byte) []byte {
	return append([]byte("entry:"), key[:]...)
}

// Store persists the full state map and header to the database, entry
// payloads compressed. One batch, all or nothing.
func (l *Ledger) Store(ctx context.Context, db database.DB, c compression.Compressor) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	header := make([]byte, 20)
	binary.BigEndian.PutUint32(header[0:4], l.sequence)
	binary.BigEndian.PutUint64(header[4:12], uint64(l.closeTime))
	binary.BigEndian.PutUint64(header[12:20], l.feesBurned)

	ops := make([]database.BatchOperation, 0, len(l.entries)+1)
	ops = append(ops, database.BatchOperation{
		Type:  database.BatchPut,
		Key:   []byte(headerKey),
		Value: header,
	})
	for key, data := range l.entries {
		compressed, err := c.Compress(data)
		if err != nil {
			return fmt.Errorf("compressing entry: %w", err)
		}
		ops = append(ops, database.BatchOperation{
			Type:  database.BatchPut,
			Key:   entryKey(key),
			Value: compressed,
		})
	}

	// Entries erased since the last store must not resurface on load.
	stale, err := l.staleKeys(ctx, db)
	if err != nil {
		return err
	}
	for _, key := range stale {
		ops = append(ops, database.BatchOperation{
			Type: database.BatchDelete,
			Key:  key,
		})
	}
	return db.Batch(ctx, ops)
}

// staleKeys lists stored entry keys that no longer exist in the state
// map. Callers must hold at least a read lock.
func (l *Ledger) staleKeys(ctx context.Context, db database.DB) ([][]byte, error) {
	prefix := []byte("entry:")
	end := []byte("entry;")
	it, err := db.Iterator(ctx, prefix, end)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var stale [][]byte
	for it.Next() {
		rawKey := it.Key()
		if len(rawKey) != len(prefix)+32 {
			continue
		}
		var key [32]byte
		copy(key[:], rawKey[len(prefix):])
		if _, ok := l.entries[key]; !ok {
			stale = append(stale, append([]byte(nil), rawKey...))
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return stale, nil
}

// Load restores a ledger previously written by Store.
func Load(ctx context.Context, db database.DB, c compression.Compressor) (*Ledger, error) {
	header, err := db.Read(ctx, []byte(headerKey))
	if err != nil {
		return nil, fmt.Errorf("reading ledger header: %w", err)
	}
	if len(header) != 20 {
		return nil, fmt.Errorf("ledger header: expected 20 bytes, got %d", len(header))
	}

	l := New()
	l.sequence = binary.BigEndian.Uint32(header[0:4])
	l.closeTime = int64(binary.BigEndian.Uint64(header[4:12]))
	l.feesBurned = binary.BigEndian.Uint64(header[12:20])

	prefix := []byte("entry:")
	end := []byte("entry;") // ':' + 1
	it, err := db.Iterator(ctx, prefix, end)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	for it.Next() {
		rawKey := it.Key()
		if len(rawKey) != len(prefix)+32 {
			return nil, fmt.Errorf("malformed entry key of length %d", len(rawKey))
		}
		var key [32]byte
		copy(key[:], rawKey[len(prefix):])

		data, err := c.Decompress(it.Value())
		if err != nil {
			return nil, fmt.Errorf("decompressing entry: %w", err)
		}
		l.entries[key] = data
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return l, nil
}
