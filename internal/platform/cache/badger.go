package cache

import (
	"context"
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v4"
)

// BadgerBackend persists values on local disk so cached payloads survive
// process restarts.
type BadgerBackend struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a store in dir. An empty dir opens an
// in-memory instance.
func OpenBadger(dir string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, crerr.Wrapf(err, "open badger store dir=%q", dir)
	}
	return &BadgerBackend{db: db}, nil
}

func (b *BadgerBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, crerr.Wrapf(err, "badger get key=%s", key)
	}
	return out, true, nil
}

func (b *BadgerBackend) Put(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if errors.Is(err, badger.ErrTxnTooBig) {
		return crerr.Mark(crerr.Wrapf(err, "badger put key=%s", key), ErrQuotaExceeded)
	}
	if err != nil {
		return crerr.Wrapf(err, "badger put key=%s", key)
	}
	return nil
}

func (b *BadgerBackend) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerBackend) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return crerr.Wrapf(err, "badger read key=%s", item.Key())
			}
			if err := fn(string(item.KeyCopy(nil)), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BadgerBackend) DeletePrefix(_ context.Context, prefix string) error {
	if err := b.db.DropPrefix([]byte(prefix)); err != nil {
		return crerr.Wrapf(err, "badger drop prefix=%s", prefix)
	}
	return nil
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
