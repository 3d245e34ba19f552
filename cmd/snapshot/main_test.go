package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/app/catalog/repo"
	"github.com/light-bringer/salecat-service/internal/models/m_entity"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
)

const legacyPayload = `[
	{"id": "a", "product": "Old mug", "unitPrice": "4,50", "quantity": "3", "sold": 2},
	{"id": "a", "type": "raffle", "name": "Raffle", "unitPrice": 1, "prize": "Bike",
	 "totalTickets": 3, "soldTicketNumbers": [3, 3, 1, 9], "status": "completed"}
]`

func seeded(t *testing.T) *repo.MemorySnapshotRepo {
	t.Helper()
	r := repo.NewMemorySnapshotRepo(clock.NewRealClock())
	r.Put(contracts.SnapshotKey, []byte(legacyPayload))
	return r
}

func TestExport_WritesNormalizedCatalog(t *testing.T) {
	ctx := context.Background()
	r := seeded(t)

	var out bytes.Buffer
	require.NoError(t, exportSnapshot(ctx, r, m_entity.NewModel(), contracts.SnapshotKey, &out))

	records := m_entity.NewModel().Decode(out.Bytes())
	require.Len(t, records, 2)
	assert.Equal(t, "Old mug", records[0].Name)
	assert.Equal(t, "product", records[0].Type)
	assert.NotEqual(t, "a", records[1].ID)
	assert.Equal(t, []int{1, 3}, records[1].SoldTicketNumbers)
	assert.Equal(t, "active", records[1].Status)
	assert.Equal(t, "2", records[1].CurrentAmount.DecimalString())

	snap, err := r.Load(ctx, contracts.SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Version, "export never writes")
}

func TestImport_DryRunLeavesStorageAlone(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemorySnapshotRepo(clock.NewRealClock())

	file := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(file, []byte(legacyPayload), 0o600))

	require.NoError(t, run(ctx, r, Options{Mode: "import", File: file, Key: contracts.SnapshotKey, DryRun: true}))

	snap, err := r.Load(ctx, contracts.SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Version)
	assert.Empty(t, snap.Records)
}

func TestImport_ReplacesCatalog(t *testing.T) {
	ctx := context.Background()
	r := seeded(t)

	file := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"id": "n", "name": "New", "unitPrice": 1, "quantity": 1}]`), 0o600))

	require.NoError(t, run(ctx, r, Options{Mode: "import", File: file, Key: contracts.SnapshotKey}))

	snap, err := r.Load(ctx, contracts.SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "n", snap.Records[0].ID)
}

func TestRepair_PersistsNormalization(t *testing.T) {
	ctx := context.Background()
	r := seeded(t)

	require.NoError(t, run(ctx, r, Options{Mode: "repair", Key: contracts.SnapshotKey}))

	snap, err := r.Load(ctx, contracts.SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)
	require.Len(t, snap.Records, 2)
	assert.NotEqual(t, snap.Records[0].ID, snap.Records[1].ID)
	assert.Equal(t, []int{1, 3}, snap.Records[1].SoldTicketNumbers)
}

// interleavingRepo lets another writer save right after each Load returns.
type interleavingRepo struct {
	*repo.MemorySnapshotRepo
	afterLoad func()
}

func (r *interleavingRepo) Load(ctx context.Context, key string) (*contracts.Snapshot, error) {
	snap, err := r.MemorySnapshotRepo.Load(ctx, key)
	if r.afterLoad != nil {
		r.afterLoad()
		r.afterLoad = nil
	}
	return snap, err
}

func TestRepair_ConcurrentWriteConflicts(t *testing.T) {
	ctx := context.Background()
	r := &interleavingRepo{MemorySnapshotRepo: seeded(t)}

	const concurrentSale = `[{"id": "p", "name": "Mug", "unitPrice": 1, "quantity": 0, "soldCount": 5}]`
	r.afterLoad = func() { r.Put(contracts.SnapshotKey, []byte(concurrentSale)) }

	err := run(ctx, r, Options{Mode: "repair", Key: contracts.SnapshotKey})
	require.ErrorIs(t, err, domain.ErrConflict)

	snap, err := r.Load(ctx, contracts.SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, 5, snap.Records[0].SoldCount, "the concurrent write survives")
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemorySnapshotRepo(clock.NewRealClock())

	assert.ErrorContains(t, run(ctx, r, Options{Mode: "shred"}), "unknown mode")
	assert.ErrorContains(t, run(ctx, r, Options{Mode: "import"}), "-file is required")
	assert.Error(t, run(ctx, r, Options{Mode: "import", File: filepath.Join(t.TempDir(), "missing.json")}))
}
