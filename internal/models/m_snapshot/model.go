package m_snapshot

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the catalog_snapshots table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns lists every column in read order.
func (m *Model) Columns() []string {
	return []string{SnapshotKey, Payload, Version, SavedAt}
}

// UpsertMut creates a mutation writing the whole snapshot row. saved_at is
// set to the commit timestamp.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{SnapshotKey, Payload, Version, SavedAt},
		[]interface{}{data.SnapshotKey, data.Payload, data.Version, spanner.CommitTimestamp},
	)
}
