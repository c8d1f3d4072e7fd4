package currency

import "context"

// Storage keeps the single rate snapshot used when the remote source is unreachable.
// Save overwrites whatever was stored before. Load returns ErrSnapshotNotFound
// (possibly wrapped) when nothing has been saved yet.
type Storage interface {
	Save(ctx context.Context, table RateTable) error
	Load(ctx context.Context) (RateTable, error)
	GetStorageProviderName() string
	Close() error
}
