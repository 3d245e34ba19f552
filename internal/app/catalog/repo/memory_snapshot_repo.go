package repo

import (
	"context"
	"sync"
	"time"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/models/m_entity"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
)

type memoryRow struct {
	payload []byte
	version int64
	savedAt time.Time
}

// MemorySnapshotRepo implements SnapshotRepository in process memory. Payloads
// are kept encoded so readers never share state with the writer.
type MemorySnapshotRepo struct {
	mu    sync.Mutex
	rows  map[string]memoryRow
	codec *m_entity.Model
	clock clock.Clock
}

// NewMemorySnapshotRepo creates an empty MemorySnapshotRepo.
func NewMemorySnapshotRepo(clk clock.Clock) *MemorySnapshotRepo {
	return &MemorySnapshotRepo{
		rows:  make(map[string]memoryRow),
		codec: m_entity.NewModel(),
		clock: clk,
	}
}

// Put stores a raw payload under key, bumping its version. It is how fixtures
// and imports seed the repository.
func (r *MemorySnapshotRepo) Put(key string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.rows[key]
	r.rows[key] = memoryRow{
		payload: append([]byte(nil), payload...),
		version: row.version + 1,
		savedAt: r.clock.Now(),
	}
}

// Load returns the snapshot for key.
func (r *MemorySnapshotRepo) Load(_ context.Context, key string) (*contracts.Snapshot, error) {
	r.mu.Lock()
	row, ok := r.rows[key]
	r.mu.Unlock()

	snap := &contracts.Snapshot{Key: key}
	if !ok {
		snap.Records = r.codec.Decode(nil)
		return snap, nil
	}

	snap.Records = r.codec.Decode(row.payload)
	snap.Version = row.version
	snap.SavedAt = row.savedAt
	return snap, nil
}

// Save stores snap if the held version is still expectedVersion.
func (r *MemorySnapshotRepo) Save(ctx context.Context, snap *contracts.Snapshot, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := r.codec.Encode(snap.Records)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rows[snap.Key].version != expectedVersion {
		return &domain.ConflictError{ID: snap.Key}
	}

	now := r.clock.Now()
	r.rows[snap.Key] = memoryRow{payload: payload, version: expectedVersion + 1, savedAt: now}

	snap.Version = expectedVersion + 1
	snap.SavedAt = now
	return nil
}
