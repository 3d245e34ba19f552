package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/salecat-service/internal/app/catalog/contracts"
	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/models/m_entity"
	"github.com/light-bringer/salecat-service/internal/models/m_snapshot"
	"github.com/light-bringer/salecat-service/internal/pkg/clock"
	"github.com/light-bringer/salecat-service/internal/pkg/committer"
	"github.com/light-bringer/salecat-service/internal/pkg/query"
)

// SpannerSnapshotRepo implements SnapshotRepository on a single Spanner row.
type SpannerSnapshotRepo struct {
	client    *spanner.Client
	committer *committer.Committer
	model     *m_snapshot.Model
	codec     *m_entity.Model
	clock     clock.Clock
}

// NewSpannerSnapshotRepo creates a new SpannerSnapshotRepo.
func NewSpannerSnapshotRepo(client *spanner.Client, comm *committer.Committer, clk clock.Clock) contracts.SnapshotRepository {
	return &SpannerSnapshotRepo{
		client:    client,
		committer: comm,
		model:     m_snapshot.NewModel(),
		codec:     m_entity.NewModel(),
		clock:     clk,
	}
}

// Load reads the snapshot row for key.
func (r *SpannerSnapshotRepo) Load(ctx context.Context, key string) (*contracts.Snapshot, error) {
	stmt := query.From(m_snapshot.TableName).
		Select(r.model.Columns()...).
		Where(query.Eq(m_snapshot.SnapshotKey, key)).
		Limit(1).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return &contracts.Snapshot{Key: key, Records: []domain.RawRecord{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var data m_snapshot.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot row: %w", err)
	}

	return &contracts.Snapshot{
		Key:     key,
		Records: r.codec.Decode(payloadBytes(data.Payload)),
		Version: data.Version,
		SavedAt: data.SavedAt,
	}, nil
}

// Save writes the snapshot row if its version is still expectedVersion.
func (r *SpannerSnapshotRepo) Save(ctx context.Context, snap *contracts.Snapshot, expectedVersion int64) error {
	payload, err := r.codec.Encode(snap.Records)
	if err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.Add(r.model.UpsertMut(&m_snapshot.Data{
		SnapshotKey: snap.Key,
		Payload:     spanner.NullJSON{Value: json.RawMessage(payload), Valid: true},
		Version:     expectedVersion + 1,
	}))

	err = r.committer.ApplyWithVersionCheck(ctx, committer.VersionGuard{
		Table:    m_snapshot.TableName,
		Key:      spanner.Key{snap.Key},
		Column:   m_snapshot.Version,
		Expected: expectedVersion,
	}, plan)
	if errors.Is(err, committer.ErrVersionConflict) {
		return &domain.ConflictError{ID: snap.Key}
	}
	if err != nil {
		return err
	}

	snap.Version = expectedVersion + 1
	snap.SavedAt = r.clock.Now()
	return nil
}

// payloadBytes re-encodes a JSON column so the tolerant decoder can read it.
func payloadBytes(v spanner.NullJSON) []byte {
	if !v.Valid || v.Value == nil {
		return nil
	}
	b, err := json.Marshal(v.Value)
	if err != nil {
		return nil
	}
	return b
}
