// Package leveldb backs the ledger store with syndtr/goleveldb.
package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/curvefoundry/curved/internal/storage/database"
)

type DB struct {
	db *leveldb.DB
}

func NewDB(db *leveldb.DB) *DB {
	return &DB{db: db}
}

func (l *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if l.db == nil {
		return nil, database.ErrDBClosed
	}
	value, err := l.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, database.ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

func (l *DB) Write(ctx context.Context, key, value []byte) error {
	if l.db == nil {
		return database.ErrDBClosed
	}
	return l.db.Put(key, value, nil)
}

func (l *DB) Delete(ctx context.Context, key []byte) error {
	if l.db == nil {
		return database.ErrDBClosed
	}
	return l.db.Delete(key, nil)
}

func (l *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	if l.db == nil {
		return database.ErrDBClosed
	}
	batch := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			batch.Put(op.Key, op.Value)
		case database.BatchDelete:
			batch.Delete(op.Key)
		default:
			return fmt.Errorf("%w: unknown operation %d", database.ErrBatchOperationFailed, op.Type)
		}
	}
	return l.db.Write(batch, nil)
}

func (l *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	if l.db == nil {
		return nil, database.ErrDBClosed
	}
	iter := l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelIterator{iter: iter}, nil
}

func (l *DB) Close() error {
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

type levelIterator struct {
	iter iterator.Iterator
}

func (it *levelIterator) Next() bool { return it.iter.Next() }

func (it *levelIterator) Key() []byte {
	key := it.iter.Key()
	out := make([]byte, len(key))
	copy(out, key)
	return out
}

func (it *levelIterator) Value() []byte {
	value := it.iter.Value()
	out := make([]byte, len(value))
	copy(out, value)
	return out
}

func (it *levelIterator) Error() error { return it.iter.Error() }

func (it *levelIterator) Close() error {
	it.iter.Release()
	return it.iter.Error()
}
