package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// SnapshotKey is the fixed key under which the catalog is persisted.
const SnapshotKey = "admin_products"

// Snapshot is the whole persisted catalog: the ordered entity records plus the
// version token used for optimistic concurrency.
type Snapshot struct {
	Key     string
	Records []domain.RawRecord
	Version int64 // 0 means nothing has been stored yet
	SavedAt time.Time
}

// SnapshotRepository persists the catalog as a single keyed record.
// Implementations write the full snapshot in one atomic operation.
type SnapshotRepository interface {
	// Load returns the snapshot stored under key. A missing key or an
	// unreadable payload yields an empty record list; only backend failures
	// are returned as errors.
	Load(ctx context.Context, key string) (*Snapshot, error)

	// Save stores snap as version expectedVersion+1, provided the stored
	// version is still expectedVersion. Otherwise it returns *domain.ConflictError.
	Save(ctx context.Context, snap *Snapshot, expectedVersion int64) error
}
