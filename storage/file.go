package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	currency "github.com/malusev998/currency-converter"
)

const DefaultSnapshotFile = "exchange_rates_backup.json"

type fileStorage struct {
	path string
}

func NewFileStorage(path string) currency.Storage {
	if path == "" {
		path = DefaultSnapshotFile
	}

	return fileStorage{path: path}
}

// Save writes into a temporary file next to the snapshot and renames it over
// the old one, so readers never observe a partial write.
func (f fileStorage) Save(_ context.Context, table currency.RateTable) error {
	data, err := encodeSnapshot(table)

	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")

	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	return nil
}

func (f fileStorage) Load(_ context.Context) (currency.RateTable, error) {
	data, err := os.ReadFile(f.path)

	if errors.Is(err, fs.ErrNotExist) {
		return currency.RateTable{}, fmt.Errorf("%s: %w", f.path, currency.ErrSnapshotNotFound)
	}

	if err != nil {
		return currency.RateTable{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	return decodeSnapshot(data)
}

func (f fileStorage) GetStorageProviderName() string {
	return "file"
}

func (f fileStorage) Close() error {
	return nil
}
