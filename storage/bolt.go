package storage

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	currency "github.com/malusev998/currency-converter"
)

const DefaultBoltFile = "exchange_rates_backup.db"

var (
	SnapshotBucket = []byte("Snapshot")
	latestKey      = []byte("latest")
)

type boltStorage struct {
	db *bbolt.DB
}

func NewBoltStorage(path string) (currency.Storage, error) {
	if path == "" {
		path = DefaultBoltFile
	}

	db, err := bbolt.Open(path, 0660, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(SnapshotBucket); err != nil {
			return fmt.Errorf("could not create bucket: %s, err: %w", string(SnapshotBucket), err)
		}

		return nil
	})
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return boltStorage{db: db}, nil
}

func (b boltStorage) Save(_ context.Context, table currency.RateTable) error {
	data, err := encodeSnapshot(table)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(SnapshotBucket).Put(latestKey, data)
	})
}

func (b boltStorage) Load(_ context.Context) (currency.RateTable, error) {
	var data []byte

	err := b.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(SnapshotBucket).Get(latestKey); v != nil {
			// v is only valid inside the transaction
			data = append([]byte(nil), v...)
		}

		return nil
	})
	if err != nil {
		return currency.RateTable{}, err
	}

	if data == nil {
		return currency.RateTable{}, fmt.Errorf("bolt: %w", currency.ErrSnapshotNotFound)
	}

	return decodeSnapshot(data)
}

func (b boltStorage) GetStorageProviderName() string {
	return "bolt"
}

func (b boltStorage) Close() error {
	return b.db.Close()
}
