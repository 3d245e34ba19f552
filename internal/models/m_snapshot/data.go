package m_snapshot

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the catalog_snapshots table.
type Data struct {
	SnapshotKey string           `spanner:"snapshot_key"`
	Payload     spanner.NullJSON `spanner:"payload"`
	Version     int64            `spanner:"version"`
	SavedAt     time.Time        `spanner:"saved_at"`
}
