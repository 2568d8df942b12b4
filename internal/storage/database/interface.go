// Package database defines the key-value storage contract the ledger
// persists through. Backends live in subpackages.
package database

import "context"

// DB is the operation set every backend must support.
type DB interface {
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	Batch(ctx context.Context, ops []BatchOperation) error
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)
}

// Iterator traverses entries in key order within [start, end).
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// BatchOperation is a single write or delete inside a batch.
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)

// Manager handles the lifecycle of named databases under one data dir.
type Manager interface {
	OpenDB(name string) (DB, error)
	CloseDB(name string) error
	Close() error
}
