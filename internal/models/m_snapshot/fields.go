package m_snapshot

// Field name constants for the catalog_snapshots table.
const (
	TableName = "catalog_snapshots"

	SnapshotKey = "snapshot_key"
	Payload     = "payload"
	Version     = "version"
	SavedAt     = "saved_at"
)
